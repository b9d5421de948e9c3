// Package cli implements the mentora command-line interface.
//
// Commands are thin adapters over the driving ports: they parse flags,
// call the service, and format the result. Service wiring happens once
// in Execute via buildServices; tests inject fakes with SetServices.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mentora-labs/mentora-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/mentora-labs/mentora-cli/internal/adapters/driven/embedding/ollama"
	"github.com/mentora-labs/mentora-cli/internal/adapters/driven/extractor/web"
	"github.com/mentora-labs/mentora-cli/internal/adapters/driven/extractor/youtube"
	ollamallm "github.com/mentora-labs/mentora-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/mentora-labs/mentora-cli/internal/adapters/driven/llm/openai"
	"github.com/mentora-labs/mentora-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/mentora-labs/mentora-cli/internal/chunker"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
	"github.com/mentora-labs/mentora-cli/internal/core/ports/driving"
	"github.com/mentora-labs/mentora-cli/internal/core/services"
	"github.com/mentora-labs/mentora-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Set once by Execute, or by tests.
var (
	retrievalService driving.RetrievalService
	chatService      driving.ChatService
	discoveryService driving.DiscoveryService
	configStore      driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mentora",
	Short: "Index learning resources and ask questions about them",
	Long: `Mentora builds a local, searchable knowledge base from learning
resources: web tutorials, YouTube transcripts, and your own notes.
Content is chunked, embedded, and stored in a local vector index so you
can search it semantically or ask questions answered from your sources.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Services bundles the driving ports the commands depend on.
type Services struct {
	Retrieval driving.RetrievalService
	Chat      driving.ChatService
	Discovery driving.DiscoveryService
	Config    driven.ConfigStore
}

// SetServices injects service implementations. Used by Execute for
// production wiring and by tests for fakes.
func SetServices(s Services) {
	retrievalService = s.Retrieval
	chatService = s.Chat
	discoveryService = s.Discovery
	configStore = s.Config
}

// Execute wires the production services and runs the root command.
func Execute() error {
	// API keys and overrides may live in a .env file
	_ = godotenv.Load()

	if retrievalService == nil {
		svcs, err := buildServices()
		if err != nil {
			return fmt.Errorf("initialise services: %w", err)
		}
		SetServices(svcs)
	}

	return rootCmd.Execute()
}

// buildServices constructs the production adapter stack.
func buildServices() (Services, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Services{}, fmt.Errorf("get home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".mentora")

	cfg, err := file.NewConfigStore(baseDir)
	if err != nil {
		return Services{}, fmt.Errorf("open config: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return Services{}, fmt.Errorf("open vector store: %w", err)
	}

	embeddings := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL: cfg.GetString("embedding.base_url"),
		Model:   cfg.GetString("embedding.model"),
	})

	var chunkOpts []chunker.Option
	if size := cfg.GetInt("chunker.chunk_size"); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if overlap := cfg.GetInt("chunker.overlap"); overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(overlap))
	}
	splitter := chunker.New(chunkOpts...)

	retrieval := services.NewRetrievalService(
		store,
		embeddings,
		splitter,
		youtube.New(youtube.Config{}),
		web.New(web.Config{}),
	)

	llm := buildLLM(cfg)

	chat := services.NewChatService(retrieval, llm)
	discovery, err := services.NewDiscoveryService(llm)
	if err != nil {
		return Services{}, fmt.Errorf("initialise discovery: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(baseDir, "prompts"))
	if err != nil {
		return Services{}, fmt.Errorf("open prompt store: %w", err)
	}
	chat.SetPromptStore(prompts)
	discovery.SetPromptStore(prompts)

	return Services{
		Retrieval: retrieval,
		Chat:      chat,
		Discovery: discovery,
		Config:    cfg,
	}, nil
}

// buildLLM selects an LLM provider from configuration. Returns nil when
// no provider is usable; services degrade to their non-LLM paths.
func buildLLM(cfg driven.ConfigStore) driven.LLMService {
	provider := cfg.GetString("llm.provider")

	if provider == "openai" {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Warn("llm.provider is openai but OPENAI_API_KEY is not set; continuing without an LLM")
			return nil
		}
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})
		if err != nil {
			logger.Warn("openai setup failed: %v; continuing without an LLM", err)
			return nil
		}
		return svc
	}

	return ollamallm.NewLLMService(ollamallm.Config{
		BaseURL: cfg.GetString("llm.base_url"),
		Model:   cfg.GetString("llm.model"),
	})
}

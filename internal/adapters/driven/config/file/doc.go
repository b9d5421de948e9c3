// Package file provides file-based configuration and prompt storage.
//
// Configuration lives in a TOML file under the mentora config directory
// (~/.mentora/config.toml by default). Prompts are plain text files in
// ~/.mentora/prompts/, created on first use from embedded defaults so
// users can customise LLM behaviour without rebuilding.
package file

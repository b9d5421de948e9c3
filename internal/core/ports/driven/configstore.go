package driven

// ConfigStore provides persistent key-value configuration storage.
// Keys use dot notation for nested values (e.g. "embedding.model").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if absent or wrong type.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if absent or wrong type.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false if absent or wrong type.
	GetBool(key string) bool

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Load reads configuration from the backing store.
	Load() error
}

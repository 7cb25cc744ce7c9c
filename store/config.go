package store

// Config holds store initialization parameters.
type Config struct {
	Name     string `json:"name,omitempty"     env:"FLUX_STORE_NAME"`
	Observer string `json:"observer,omitempty" env:"FLUX_STORE_OBSERVER"`
}

// DefaultConfig returns a store named "store" that logs through slog.
func DefaultConfig() Config {
	return Config{
		Name:     "store",
		Observer: "slog",
	}
}

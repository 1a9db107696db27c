package model

type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Watcher WatcherConfig `yaml:"watcher"`
	Logging LoggingConfig `yaml:"logging"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // table|json|yaml
}

type WatcherConfig struct {
	DebounceSec float64 `yaml:"debounce_sec"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no cpmtool.yaml is present.
func DefaultConfig() Config {
	return Config{
		Output:  OutputConfig{Format: "table"},
		Watcher: WatcherConfig{DebounceSec: 0.5},
		Logging: LoggingConfig{Level: "info"},
	}
}

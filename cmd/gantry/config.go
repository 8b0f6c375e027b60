package main

const (
	defaultBindHost        = "127.0.0.1"
	defaultAPIPort         = 3000
	defaultTaskCount       = 500
	defaultWindowHours     = 24
	defaultFailureRate     = 0.1
	defaultErrorFilterMode = "failures-only"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	TaskCount       int     `mapstructure:"task-count"`
	WindowHours     int     `mapstructure:"window-hours"`
	FailureRate     float64 `mapstructure:"failure-rate"`
	Seed            int64   `mapstructure:"seed"`
	ProfilePath     string  `mapstructure:"profile"`
	ErrorFilterMode string  `mapstructure:"error-filter-mode"`
	APIEnabled      bool    `mapstructure:"api-enabled"`
	APIPort         int     `mapstructure:"api-port"`
	APIAddr         string  `mapstructure:"api-addr"`
	SocketPath      string  `mapstructure:"socket-path"`
	ConfigPath      string  `mapstructure:"-"` // not from config file
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gantryworks/gantry/internal/model"
	"github.com/gantryworks/gantry/internal/socketrpc"
	"github.com/gantryworks/gantry/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

type cliConfig struct {
	UpdateInterval time.Duration `mapstructure:"update-interval"`
	TablePageSize  int           `mapstructure:"table-page-size"`
	SocketPath     string        `mapstructure:"socket-path"`
}

func main() {
	var configPath string
	var socketPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/gantry/tui.yml)")
	flag.StringVar(&socketPath, "socket", "", "path to the gantry service socket")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Gantry TUI - Warehouse Monitoring Dashboard\n")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Built:   %s\n", buildTime)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	client, err := socketrpc.Dial(cfg.SocketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot reach the gantry service at %s: %v\n", cfg.SocketPath, err)
		fmt.Fprintln(os.Stderr, "Is `gantry` running?")
		os.Exit(1)
	}
	defer client.Close()

	m := tui.NewDashboardModel(client, cfg.UpdateInterval, cfg.TablePageSize)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	v := viper.New()
	v.SetEnvPrefix("GANTRY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("update-interval", model.DefaultUpdateInterval)
	v.SetDefault("table-page-size", model.DefaultTablePageSize)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "gantry", "tui.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if cfg.UpdateInterval < 100*time.Millisecond {
		return cfg, fmt.Errorf("update-interval too small: %s (minimum 100ms)", cfg.UpdateInterval)
	}
	if cfg.TablePageSize <= 0 {
		return cfg, fmt.Errorf("invalid table-page-size: %d", cfg.TablePageSize)
	}

	return cfg, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gantryworks/gantry/internal/dataset"
	"github.com/gantryworks/gantry/internal/filter"
	"github.com/gantryworks/gantry/internal/fleet"
	"github.com/gantryworks/gantry/internal/httpserver"
	"github.com/gantryworks/gantry/internal/socketrpc"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
)

// runServer generates the dataset and serves it over the HTTP API and the
// socket RPC surface until interrupted.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	prof, err := loadProfile(cfg)
	if err != nil {
		return fmt.Errorf("failed to load fleet profile: %w", err)
	}

	hub, err := dataset.NewHub(prof, cfg.Seed, codeMatchMode(cfg.ErrorFilterMode))
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	// Start HTTP API server if enabled
	var apiServer *httpserver.Server
	if cfg.APIEnabled {
		apiServer = httpserver.NewServer(cfg.APIAddr, hub)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Start socket RPC server for TUI IPC
	sockServer := socketrpc.NewServer(cfg.SocketPath, hub)
	sockUp := true
	if err := sockServer.Start(); err != nil {
		log.Printf("Warning: failed to start socket server: %v", err)
		sockUp = false
	} else {
		defer sockServer.Stop()
	}

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now — not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	info, err := hub.Info()
	if err != nil {
		return fmt.Errorf("failed to read dataset info: %w", err)
	}
	printStartupBanner(cfg, prof, info.TaskCount, info.Seed)

	// One errgroup watches both serve loops: a listener failing out from
	// under either server cancels the group and takes the service down.
	g, gctx := errgroup.WithContext(ctx)

	if apiServer != nil {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			case err := <-apiServer.Err():
				return fmt.Errorf("api server: %w", err)
			}
		})
	}
	if sockUp {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			case err := <-sockServer.Err():
				return fmt.Errorf("socket server: %w", err)
			}
		})
	}

	err = g.Wait()

	cancel()
	signal.Stop(sigCh)

	return err
}

func loadProfile(cfg appConfig) (fleet.Profile, error) {
	if cfg.ProfilePath != "" {
		return fleet.Load(cfg.ProfilePath)
	}

	prof := fleet.Default()
	prof.TaskCount = cfg.TaskCount
	prof.WindowHours = cfg.WindowHours
	prof.FailureRate = cfg.FailureRate
	return prof, prof.Validate()
}

func codeMatchMode(mode string) filter.CodeMatchMode {
	if mode == "include-success" {
		return filter.CodeMatchIncludeSuccess
	}
	return filter.CodeMatchFailuresOnly
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "gantry")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "gantry.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, prof fleet.Profile, taskCount int, seed int64) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗╔═╗╔╗╔╔╦╗╦═╗╦ ╦
    ║ ╦╠═╣║║║ ║ ╠╦╝╚╦╝
    ╚═╝╩ ╩╝╚╝ ╩ ╩╚═ ╩ `)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Surfaces"))
	lines = append(lines, "")

	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Dataset"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("    %s  Tasks          %s", check, dim.Render(fmt.Sprintf("%d over %dh", taskCount, prof.WindowHours))))
	lines = append(lines, fmt.Sprintf("    %s  Fleet          %s", check, dim.Render(fmt.Sprintf("%d machines, %d error codes", len(prof.Machines), len(prof.ErrorCodes)))))
	lines = append(lines, fmt.Sprintf("    %s  Seed           %s", check, dim.Render(fmt.Sprintf("%d", seed))))

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}
	if cfg.ProfilePath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Fleet Profile  %s", check, dim.Render(shortenPath(cfg.ProfilePath))))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

// Command sonicgate is the main entry point for the sonicgate TTS
// brokering server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MrWong99/sonicgate/internal/app"
	"github.com/MrWong99/sonicgate/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "sonicgate: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "sonicgate: %v\n", err)
		}
		return 1
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(cfg.Log.Level))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar})))

	slog.Info("sonicgate starting",
		"config", *configPath,
		"listen_address", cfg.Server.ListenAddress,
		"listen_port", cfg.Server.ListenPort,
		"log_level", cfg.Log.Level,
	)

	printStartupSummary(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}

	watcher, err := config.NewWatcher(*configPath, func(old, cur *config.Config) {
		d := config.Diff(old, cur)
		if d.LogLevelChanged {
			levelVar.Set(parseLevel(d.NewLogLevel))
			slog.Info("log level changed via config reload", "level", d.NewLogLevel)
		}
		if d.BackendsChanged || d.CredentialsChanged || d.RateLimitChanged || d.ListenAddrChanged {
			slog.Warn("config change requires a restart to take effect",
				"backends_changed", d.BackendsChanged,
				"credentials_changed", d.CredentialsChanged,
				"rate_limit_changed", d.RateLimitChanged,
				"listen_addr_changed", d.ListenAddrChanged,
			)
		}
	})
	if err != nil {
		slog.Error("failed to start config watcher", "err", err)
		return 1
	}
	defer watcher.Stop()

	slog.Info("server ready — press Ctrl+C to shut down")

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("shutdown signal received, stopping…")
	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

func printStartupSummary(cfg *config.Config) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        sonicgate — startup summary    ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printBackend("EdgeFree", !cfg.Backends.CloseEdgeFreeApi)
	printBackend("OfficialPreview", cfg.Backends.EnableOfficialPreview)
	printBackend("Subscription", !cfg.Backends.CloseOfficialSubscribeApi)
	fmt.Printf("║  Subscribe keys  : %-19d ║\n", len(cfg.ParsedCredentials()))
	fmt.Printf("║  Server area     : %-19s ║\n", cfg.Server.ServerArea)
	fmt.Printf("║  Listen addr     : %-19s ║\n", fmt.Sprintf("%s:%d", cfg.Server.ListenAddress, cfg.Server.ListenPort))
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printBackend(name string, enabled bool) {
	status := "disabled"
	if enabled {
		status = "enabled"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", name, status)
}

// parseLevel maps a config log level string to its slog.Level, defaulting
// to Info for anything unrecognised.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

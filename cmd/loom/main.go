package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/loom/internal/config"
	"github.com/user/loom/pkg/assist"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "loom",
	Short:         "Stateful client for an assistants API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config",
		filepath.Join(os.Getenv("HOME"), ".loom", "config.json"), "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newSession(cfg *config.Config) *assist.Session {
	transport := assist.NewOpenAITransport(cfg.API.APIKey, cfg.API.BaseURL)

	opts := []assist.SessionOption{
		assist.WithPollPolicy(assist.PollPolicy{
			Interval: time.Duration(cfg.Poll.IntervalMS) * time.Millisecond,
			Timeout:  time.Duration(cfg.Poll.TimeoutS) * time.Second,
		}),
	}

	var defaults assist.ListOptions
	if cfg.List.Limit > 0 {
		defaults.Limit = assist.Int(cfg.List.Limit)
	}
	if cfg.List.Order != "" {
		defaults.Order = assist.String(cfg.List.Order)
	}
	if defaults.Limit != nil || defaults.Order != nil {
		opts = append(opts, assist.WithListDefaults(defaults))
	}

	return assist.NewSession(transport, opts...)
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"devdesk/internal/config"
	"devdesk/internal/storage/sqlite"
	"devdesk/internal/util"
)

var rootCmd = &cobra.Command{
	Use:   "devdesk",
	Short: "Local-first task and bug tracker",
	Long: `DevDesk tracks tasks and bugs on a three-column board (To Do, In Progress, Done).
Run "devdesk serve" for the web board and JSON API, or use "items" and "export"
to work with the database directly.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(itemsCmd())
	rootCmd.AddCommand(exportCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DEVDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "devdesk.yaml", "path to YAML config file")
	flags.String("addr", "", "HTTP listen address")
	flags.String("db", "", "path to sqlite database file")
	flags.String("static", "", "directory with built frontend")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("dismiss-policy", "", "closing the hours prompt: skip or abort")
	flags.String("openai-api-key", "", "OpenAI API key (AI features are off without one)")
	flags.String("openai-base-url", "", "OpenAI-compatible API base URL")
	flags.String("openai-model", "", "chat completion model")
	flags.Duration("openai-timeout", 0, "chat completion request timeout")
	flags.Bool("json", false, "output JSON")
	for _, name := range []string{
		"config", "addr", "db", "static", "log-level", "dismiss-policy",
		"openai-api-key", "openai-base-url", "openai-model", "openai-timeout", "json",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

// loadConfig reads the config file and overlays flag and environment values.
// The file is optional unless it was named explicitly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"), !viper.IsSet("config"))
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config) {
	overrideString := func(key string, dst *string) {
		if viper.IsSet(key) {
			if v := viper.GetString(key); v != "" {
				*dst = v
			}
		}
	}
	overrideString("addr", &cfg.Server.Addr)
	overrideString("db", &cfg.Database.Path)
	overrideString("static", &cfg.Server.StaticDir)
	overrideString("log-level", &cfg.Log.Level)
	overrideString("dismiss-policy", &cfg.Board.DismissPolicy)
	overrideString("openai-api-key", &cfg.AI.APIKey)
	overrideString("openai-base-url", &cfg.AI.BaseURL)
	overrideString("openai-model", &cfg.AI.Model)
	if viper.IsSet("openai-timeout") {
		if d := viper.GetDuration("openai-timeout"); d > 0 {
			cfg.AI.Timeout = d
		}
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = util.FirstEnv("OPENAI_API_KEY")
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// withStore opens the configured database for a one-shot command.
func withStore(fn func(cfg *config.Config, store *sqlite.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	store, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

package main

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"

	"github.com/quentel/fitflow"
	"github.com/quentel/fitflow/internal/config"
	"github.com/quentel/fitflow/internal/logging"
	"github.com/quentel/fitflow/pkg/adapters/file"
	"github.com/quentel/fitflow/pkg/adapters/memory"
	"github.com/quentel/fitflow/pkg/adapters/openai"
	"github.com/quentel/fitflow/pkg/adapters/redis"
	"github.com/quentel/fitflow/pkg/adapters/tavily"
	"github.com/quentel/fitflow/pkg/persistence/middleware"
	"github.com/quentel/fitflow/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fitflow",
	Short: "fitflow turns a fitness goal into an approved weekly workout plan",
	Long: `fitflow runs a multi-step coaching workflow: it extracts a profile from
your goal description, gathers training resources, assesses feasibility,
and drafts a weekly schedule plus nutrition guidance. The draft pauses
for your approval; feedback loops back through a bounded revision cycle.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", ".", "Directory containing config.yaml")
}

func loadConfig(cmd *cobra.Command) config.Config {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}
	if cfg.Logging.Format == "json" {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

func newStore(cfg config.Config, logger *slog.Logger) (ports.StateStore, ports.DistributedLocker) {
	var (
		store  ports.StateStore
		locker ports.DistributedLocker
	)
	switch cfg.Store.Backend {
	case "redis":
		rs := redis.New(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB,
			redis.WithTTL(cfg.Store.TTL))
		store, locker = rs, redis.NewLocker(rs.Client(), "")
	case "file":
		store = file.New(cfg.Store.Path)
	default:
		store = memory.New(memory.WithTTL(cfg.Store.TTL))
	}

	if cfg.Store.EncryptionKey != "" {
		fallbacks := make([][]byte, 0, len(cfg.Store.EncryptionFallbackKeys))
		for _, k := range cfg.Store.EncryptionFallbackKeys {
			fallbacks = append(fallbacks, deriveKey(k))
		}
		store = middleware.Chain(store, middleware.NewEncryption(middleware.EncryptionConfig{
			ActiveKey:    deriveKey(cfg.Store.EncryptionKey),
			FallbackKeys: fallbacks,
		}))
		logger.Info("checkpoint encryption enabled", "fallback_keys", len(fallbacks))
	}
	return store, locker
}

// deriveKey stretches a passphrase into the 32 bytes AES-256 wants.
func deriveKey(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}

type coachOptions struct {
	offline bool
	extra   []fitflow.Option
}

func buildCoach(cmd *cobra.Command, opts coachOptions) (*fitflow.Coach, config.Config, *slog.Logger) {
	cfg := loadConfig(cmd)
	logger := newLogger(cfg)
	store, locker := newStore(cfg, logger)

	coachOpts := []fitflow.Option{
		fitflow.WithStore(store),
		fitflow.WithLogger(logger),
		fitflow.WithArtifactStore(file.NewArtifactStore(cfg.Plans.Dir)),
		fitflow.WithMaxRevisions(cfg.Engine.MaxRevisions),
	}
	if locker != nil {
		coachOpts = append(coachOpts, fitflow.WithLocker(locker))
	}
	if !opts.offline {
		llmOpts := []openai.Option{}
		if cfg.LLM.APIKey != "" {
			llmOpts = append(llmOpts, openai.WithAPIKey(cfg.LLM.APIKey))
		}
		coachOpts = append(coachOpts, fitflow.WithCompleter(openai.New(cfg.LLM.Model, llmOpts...)))

		searchOpts := []tavily.Option{}
		if cfg.Search.APIKey != "" {
			searchOpts = append(searchOpts, tavily.WithAPIKey(cfg.Search.APIKey))
		}
		coachOpts = append(coachOpts, fitflow.WithSearcher(tavily.New(searchOpts...)))
	}
	coachOpts = append(coachOpts, opts.extra...)

	coach, err := fitflow.New(coachOpts...)
	if err != nil {
		fmt.Printf("Error initializing fitflow: %v\n", err)
		os.Exit(1)
	}
	return coach, cfg, logger
}

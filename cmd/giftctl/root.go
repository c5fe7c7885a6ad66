package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HammerMeetNail/giftmatch/internal/app"
	"github.com/HammerMeetNail/giftmatch/internal/config"
	"github.com/HammerMeetNail/giftmatch/internal/database"
	"github.com/HammerMeetNail/giftmatch/internal/logging"
)

var (
	cfg      *config.Config
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "giftctl",
	Short:         "Operate the giftmatch suggestion engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		level, ok := logging.ParseLevel(logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", logLevel)
		}
		logging.SetDefaultLevel(level)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// stores holds the open connections for one command run.
type stores struct {
	db    *database.PostgresDB
	redis *database.RedisDB
	svc   *app.Services
}

func openStores() (*stores, error) {
	db, err := database.NewPostgresDB(cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	svc, err := app.NewServices(cfg, db.Pool, redisDB.Client)
	if err != nil {
		db.Close()
		_ = redisDB.Close()
		return nil, err
	}
	return &stores{db: db, redis: redisDB, svc: svc}, nil
}

func (s *stores) Close() {
	s.svc.Clicks.Wait()
	_ = s.redis.Close()
	s.db.Close()
}

// courtside-seed is the operational loader for the calendar
// collection: it validates a YAML dataset and pushes it into the
// configured backend, optionally clearing the collection first.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sidelinehq/courtside/internal/config"
	"github.com/sidelinehq/courtside/internal/domain"
	"github.com/sidelinehq/courtside/internal/logger"
	"github.com/sidelinehq/courtside/internal/remote"
	"github.com/sidelinehq/courtside/internal/remote/pgstore"
	"github.com/sidelinehq/courtside/internal/remote/redisstore"
	"github.com/sidelinehq/courtside/internal/seed"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var (
		file string
		wipe bool
	)

	root := &cobra.Command{
		Use:   "courtside-seed",
		Short: "Load a calendar dataset into the remote collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, skipped, err := loadDataset(file)
			if err != nil {
				return err
			}
			if skipped > 0 {
				fmt.Fprintf(os.Stderr, "warning: %d invalid entries skipped\n", skipped)
			}

			cfg := config.Load()
			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

			collection, closeCollection, err := connect(cfg, loggerClient)
			if err != nil {
				return err
			}
			defer closeCollection()

			seeder := seed.NewSeeder(collection, loggerClient, cfg.BatchChunkSize)
			ctx := context.Background()

			if wipe {
				deleted, err := seeder.Wipe(ctx)
				if err != nil {
					return fmt.Errorf("wipe failed: %w", err)
				}
				fmt.Printf("deleted %d existing items\n", deleted)
			}

			written, err := seeder.Seed(ctx, items)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Printf("seeded %d items from %s\n", written, file)
			return nil
		},
	}
	root.Flags().StringVarP(&file, "file", "f", "calendar.yaml", "dataset YAML file")
	root.Flags().BoolVar(&wipe, "wipe", false, "delete everything in the collection first")
	root.SilenceUsage = true

	check := &cobra.Command{
		Use:   "check",
		Short: "Validate a dataset without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, skipped, err := loadDataset(file)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d valid entries, %d skipped\n", file, len(items), skipped)
			if skipped > 0 {
				return fmt.Errorf("%d entries would not seed", skipped)
			}
			return nil
		},
	}
	check.Flags().StringVarP(&file, "file", "f", "calendar.yaml", "dataset YAML file")
	root.AddCommand(check)

	return root
}

func loadDataset(file string) ([]domain.CalendarItem, int, error) {
	ds, err := seed.NewLoader(file).Load()
	if err != nil {
		return nil, 0, err
	}
	return seed.NewMapper().MapItems(ds)
}

// connect wires the configured backend the same way the service does.
func connect(cfg *config.Config, log logger.Logger) (remote.Collection, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := redisstore.Connect(redisstore.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.New(client, cfg.BatchChunkSize), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RemoteTimeout)
		defer cancel()
		pool, err := pgstore.New(ctx, cfg.PostgresURL, cfg.BatchChunkSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return pool, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

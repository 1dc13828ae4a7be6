// Package main provides the dictionary admin CLI.
// It registers entries from a JSON file, lists sources, grants admin roles
// and flushes cached source symbol lists.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"invest_backend/internal/app/di"
	dictadapters "invest_backend/internal/feature/symboldictionary/adapters"
	"invest_backend/internal/feature/symboldictionary/domain/entity"
	"invest_backend/internal/feature/symboldictionary/transport/http/dto"
	"invest_backend/internal/platform/cache"
	"invest_backend/internal/platform/config"
	infradb "invest_backend/internal/platform/db"
	jwtmw "invest_backend/internal/platform/jwt"
	infraredis "invest_backend/internal/platform/redis"
)

func main() {
	config.LoadEnv()
	config.SetupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		sourcesPath string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Manage the external symbol dictionary",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if sourcesPath == "" {
				sourcesPath = config.SourcesConfigPath()
			}
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&sourcesPath, "sources", "s", "", "Source catalog YAML (defaults to $SOURCES_CONFIG)")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall command timeout")

	cmd.AddCommand(&cobra.Command{
		Use:   "sources",
		Short: "List configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := dictadapters.LoadCatalog(sourcesPath)
			if err != nil {
				return err
			}
			for _, s := range catalog.Sources {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Name, s.Kind)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.json>",
		Short: "Validate and register dictionary entries from a JSON file",
		Long: `Reads {"entries":[{"source":..,"symbol":..,"ticker":..}]} and registers
every entry whose symbol is currently listed by its source. Invalid entries
are skipped; the command fails only when a source cannot be reached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			entries, err := readEntries(args[0])
			if err != nil {
				return err
			}
			return withApp(ctx, sourcesPath, func(app *di.App) error {
				saved, err := app.Register.RegisterAll(ctx, entries)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered %d of %d entries\n", len(saved), len(entries))
				return json.NewEncoder(cmd.OutOrStdout()).Encode(dto.FromEntities(saved))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "grant-admin <email>",
		Short: "Give a user the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return withApp(ctx, sourcesPath, func(app *di.App) error {
				if err := app.Admins.GrantAdmin(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now admin\n", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "flush-cache",
		Short: "Delete cached source symbol lists from Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			rcfg := infraredis.LoadConfigFromEnv()
			if !rcfg.Enabled() {
				return errors.New("REDIS_HOST is not set")
			}
			rdb, err := infraredis.NewRedisClient(ctx, rcfg)
			if err != nil {
				return err
			}
			defer rdb.Close()

			n, err := cache.Flush(ctx, rdb, cache.DefaultNamespace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d cached source lists\n", n)
			return nil
		},
	})

	return cmd
}

// readEntries は import 用のJSONファイルを読み込みます。"-" の場合は標準入力です。
func readEntries(path string) ([]entity.Entry, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var req dto.RegisterEntriesRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	entries := make([]entity.Entry, 0, len(req.Entries))
	for _, in := range req.Entries {
		entries = append(entries, in.ToEntity())
	}
	return entries, nil
}

// withApp はDBと（設定されていれば）Redisに接続してアプリケーションを組み立て、fn を実行します。
func withApp(ctx context.Context, sourcesPath string, fn func(app *di.App) error) error {
	db, err := infradb.OpenDB()
	if err != nil {
		return err
	}

	var rdb *redisv9.Client
	if rcfg := infraredis.LoadConfigFromEnv(); rcfg.Enabled() {
		if rdb, err = infraredis.NewRedisClient(ctx, rcfg); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	catalog, err := dictadapters.LoadCatalog(sourcesPath)
	if err != nil {
		return err
	}
	app, err := di.NewApp(db, rdb, catalog, os.Getenv(jwtmw.EnvKeyJWTSecret))
	if err != nil {
		return err
	}
	return fn(app)
}

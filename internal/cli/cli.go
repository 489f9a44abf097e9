package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/school-kit/helpdesk-service/internal/config"
	"github.com/school-kit/helpdesk-service/internal/export"
	"github.com/school-kit/helpdesk-service/internal/observability"
	"github.com/school-kit/helpdesk-service/internal/persistence"
	"github.com/school-kit/helpdesk-service/internal/query"
	"github.com/school-kit/helpdesk-service/internal/seed"
	"github.com/school-kit/helpdesk-service/internal/store"
)

// NewRootCommand builds the helpdeskctl command tree. Every subcommand
// opens the record store selected by STORE_BACKEND, so the CLI operates on
// the same data the API serves.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "helpdeskctl",
		Short:         "Administer the school help-desk record store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCommand())
	root.AddCommand(newExportCommand())
	root.AddCommand(newExportCSVCommand())
	root.AddCommand(newImportCommand())
	root.AddCommand(newStatsCommand())
	return root
}

func newSeedCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write demo users and sample tickets into empty collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, records store.RecordStore) error {
				seeded, err := seed.Apply(ctx, records, time.Now(), force)
				if err != nil {
					return err
				}
				if !seeded {
					fmt.Println("collections are not empty; use --force to overwrite")
					return nil
				}
				fmt.Println("seeded demo users and sample tickets")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing collections")
	return cmd
}

func newExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export users and tickets as a JSON bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, records store.RecordStore) error {
				bundle, err := export.NewExporter(records).ExportBundle(ctx)
				if err != nil {
					return err
				}
				raw, err := json.MarshalIndent(bundle, "", "  ")
				if err != nil {
					return err
				}
				return writeOutput(out, append(raw, '\n'))
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newExportCSVCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export the ticket collection as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, records store.RecordStore) error {
				tickets, err := records.Tickets(ctx)
				if err != nil {
					return err
				}
				tickets = query.Sort(tickets, query.SortByCreatedAt, query.SortDesc)
				return writeOutput(out, []byte(export.TicketsCSV(tickets)+"\n"))
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON bundle, replacing whichever collections it carries",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, records store.RecordStore) error {
				if err := export.NewExporter(records).ImportBundle(ctx, raw); err != nil {
					return err
				}
				fmt.Println("import complete")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "bundle file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print headline ticket metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, records store.RecordStore) error {
				tickets, err := records.Tickets(ctx)
				if err != nil {
					return err
				}
				summary := query.Summarize(tickets)
				fmt.Printf("total:    %d\n", summary.Total)
				fmt.Printf("open:     %d\n", summary.Open)
				fmt.Printf("resolved: %d\n", summary.Resolved)
				if summary.AvgResolutionDays != nil {
					fmt.Printf("avg resolution: %.1f days\n", *summary.AvgResolutionDays)
				} else {
					fmt.Println("avg resolution: n/a")
				}
				for _, row := range query.CountByPriority(tickets) {
					fmt.Printf("%-8s %d\n", row.Priority, row.Count)
				}
				return nil
			})
		},
	}
}

// withStore loads config, opens the selected backend, runs fn and closes
// connections.
func withStore(ctx context.Context, fn func(context.Context, store.RecordStore) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(config.LoggerConfig{Level: "warn"})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	records, closeFn, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, records)
}

// OpenStore builds the record store named by the configuration. The
// returned func releases any connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.RecordStore, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		client := persistence.NewRedisClient(cfg.Redis, logger)
		closeFn := func() { _ = client.Close() }
		return store.NewRedisStore(client, cfg.Store.KeyPrefix), closeFn, nil
	case config.StoreBackendPostgres:
		pool, err := persistence.ConnectPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return store.NewPostgresStore(pool), pool.Close, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

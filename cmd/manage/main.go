package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"dermacare-backend/internal/config"
	"dermacare-backend/internal/database"
	"dermacare-backend/internal/logger"
	"dermacare-backend/internal/repository"
	"dermacare-backend/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "manage",
		Short:        "Maintenance commands for the dermacare API database",
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newImportDoctorsCommand())
	root.AddCommand(newSeedSampleCommand())
	return root
}

// env is what every subcommand needs: a migrated connection and a logger.
type env struct {
	db  *gorm.DB
	log *zap.Logger
}

func setup() (*env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	zlog, err := logger.New(cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg, zlog)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = zlog.Sync()
	}
	return &env{db: db, log: zlog}, cleanup, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations executed successfully.")
			return nil
		},
	}
}

func newImportDoctorsCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "import-doctors <file.csv>",
		Short: "Import doctors from a CSV sheet",
		Long: `Creates a doctor account and profile for every row of the sheet.
The sheet needs the columns fam_dr_name, fam_dr_edu, fam_dr_hospital and
fam_dr_hospital_location. Each doctor logs in with <name without spaces>@hospital.com
and their full name as password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			n, err := seed.New(repository.New(e.db), e.log).ImportDoctors(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d doctors\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum time for the import")
	return cmd
}

func newSeedSampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-sample",
		Short: "Create a demo patient with sample predictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := seed.New(repository.New(e.db), e.log).SeedSample(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sample data created successfully")
			return nil
		},
	}
}

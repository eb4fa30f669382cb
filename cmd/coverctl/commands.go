package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Romer4ig/image-moderation/internal/bootstrap"
	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var importCSVCmd = &cobra.Command{
	Use:   "import-csv <file>",
	Short: "Import collections from a CSV file",
	Long:  `The header row must contain id, name and type; collection_positive_prompt, collection_negative_prompt and comment are optional. Existing ids are skipped.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImportCSV,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex <project-id>",
	Short: "Import existing images from a project's source folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runReindex,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx, cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	db, err := bootstrap.OpenDatabase(ctx, bootstrap.NewDatabaseConfig(cfg), log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	return nil
}

func runImportCSV(cmd *cobra.Command, args []string) error {
	ctx, cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	infra, services, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	report, err := services.Collections.ImportCSV(ctx, f)
	if err != nil {
		return err
	}
	return printJSON(cmd, report)
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx, cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	infra, services, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	report, err := services.Generations.Reindex(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, report)
}

func setup(cmd *cobra.Command) (context.Context, *config.Config, zerolog.Logger, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, nil, zerolog.Nop(), fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	// Live updates are not relayed from the CLI.
	cfg.RedisAddr = ""

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	cobra.OnFinalize(stop)
	return ctx, cfg, logger.New(cfg), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

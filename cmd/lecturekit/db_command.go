package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bdougie/lecturekit/internal/storage"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database utilities",
	}
	dbCmd.AddCommand(newDBInitCommand(ctx))
	return dbCmd
}

func newDBInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the pgvector schema in storage.postgres_dsn",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Storage.PostgresDSN == "" {
				return errors.New("storage.postgres_dsn (or DATABASE_URL) is not set")
			}
			if err := storage.InitSchema(cmd.Context(), cfg.Storage.PostgresDSN, cfg.Embeddings.Dimensions); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (embedding dimensions: %d)\n", cfg.Embeddings.Dimensions)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bdougie/lecturekit/internal/storage"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find stored slides similar to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx := cmd.Context()

			searcher, err := storage.OpenSearcher(runCtx, cfg)
			if err != nil {
				return err
			}
			defer searcher.Close()

			emb, err := ctx.embedder()
			if err != nil {
				return err
			}
			defer emb.Close()

			query := strings.Join(args, " ")
			vectors, err := emb.Embed(runCtx, []string{query})
			if err != nil {
				return fmt.Errorf("embed query: %w", err)
			}
			results, err := searcher.SearchSimilar(runCtx, vectors[0], limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No matching slides.")
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.SessionID,
					strconv.Itoa(r.FrameNum),
					strconv.FormatFloat(r.Similarity, 'f', 3, 64),
					r.Summary,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Session", "Frame", "Similarity", "Summary"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of results")
	return cmd
}

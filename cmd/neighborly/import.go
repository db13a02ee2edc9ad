// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/store"
)

type importOptions struct {
	ratings   string
	config    string
	batchSize int
}

func newImportCmd() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a ratings file into the configured store",
		Long: "Load a ratings file into the store selected by STORE_BACKEND (or the\n" +
			"store section of --config). Re-importing is safe: the most recent rating\n" +
			"per user and item wins.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(opts.config)
			if err != nil {
				return err
			}

			st, err := store.Open(cmd.Context(), &cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			stats, err := store.ImportFile(cmd.Context(), st, opts.ratings, opts.batchSize)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render("Import complete"))
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("store:    "), st.Name())
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("loaded:   "), stats.Loaded)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("malformed:"), stats.Malformed)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("users:    "), stats.Users)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("items:    "), stats.Items)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("duration: "), stats.Duration)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ratings, "ratings", "", "ratings file (.csv or MovieLens .dat)")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file (defaults and environment only when empty)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", store.DefaultImportBatchSize, "ratings per write batch")
	_ = cmd.MarkFlagRequired("ratings")
	return cmd
}

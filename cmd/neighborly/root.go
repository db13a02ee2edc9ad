// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/recommend"
	"github.com/tomtom215/neighborly/internal/recommend/algorithms"
	"github.com/tomtom215/neighborly/internal/store"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "neighborly",
		Short:         "User-user collaborative filtering rating prediction",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			lc := logging.DefaultConfig()
			lc.Level = opts.logLevel
			lc.Format = "console"
			lc.Output = cmd.ErrOrStderr()
			logging.Init(lc)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newScoreCmd(), newNeighborsCmd(), newImportCmd())
	return cmd
}

// fileEngine loads a ratings file into memory and builds a scoring engine
// over it.
func fileEngine(ctx context.Context, path string) (*recommend.Engine, store.LoadStats, error) {
	records, stats, err := store.LoadFile(path)
	if err != nil {
		return nil, stats, err
	}

	mem := store.NewMemory()
	if err := mem.AddRatings(ctx, records); err != nil {
		return nil, stats, fmt.Errorf("load ratings: %w", err)
	}

	predictor, err := algorithms.NewUserUser(mem, algorithms.DefaultUserUserConfig())
	if err != nil {
		return nil, stats, err
	}
	engine, err := recommend.NewEngine(predictor, nil, logging.Logger())
	if err != nil {
		return nil, stats, err
	}
	return engine, stats, nil
}

// optionalK returns nil unless the -k flag was given.
func optionalK(cmd *cobra.Command, k int) *int {
	if !cmd.Flags().Changed("k") {
		return nil
	}
	return &k
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

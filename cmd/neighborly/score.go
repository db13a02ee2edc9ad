// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/neighborly/internal/recommend"
)

type scoreOptions struct {
	ratings string
	user    int64
	items   []int64
	k       int
	json    bool
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Predict a user's ratings for items",
		Example: "  neighborly score --ratings ml-latest-small/ratings.csv --user 1 --items 10,20,30\n" +
			"  neighborly score --ratings ratings.dat --user 7 --items 50 -k 10 --json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, _, err := fileEngine(cmd.Context(), opts.ratings)
			if err != nil {
				return err
			}

			resp, err := engine.Score(cmd.Context(), recommend.ScoreRequest{
				UserID:  opts.user,
				ItemIDs: opts.items,
				K:       optionalK(cmd, opts.k),
			})
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			renderScores(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ratings, "ratings", "", "ratings file (.csv or MovieLens .dat)")
	cmd.Flags().Int64Var(&opts.user, "user", 0, "target user ID")
	cmd.Flags().Int64SliceVar(&opts.items, "items", nil, "comma-separated item IDs to score")
	cmd.Flags().IntVarP(&opts.k, "k", "k", recommend.DefaultNeighborhoodSize, "neighborhood size")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the full response as JSON")
	for _, name := range []string{"ratings", "user", "items"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func renderScores(w io.Writer, resp *recommend.ScoreResponse) {
	md := resp.Metadata
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Scores for user %d", md.UserID)))
	fmt.Fprintf(w, "%s %s  %s %d\n\n",
		labelStyle.Render("mean:"), valueStyle.Render(strconv.FormatFloat(md.UserMean, 'f', 4, 64)),
		labelStyle.Render("k:"), md.NeighborhoodSize)

	fmt.Fprintln(w, labelStyle.Render(columnStyle.Render("ITEM")+columnStyle.Render("SCORE")+columnStyle.Render("NEIGHBORS")))
	for _, p := range resp.Predictions {
		line := columnStyle.Render(strconv.FormatInt(p.ItemID, 10)) +
			columnStyle.Render(strconv.FormatFloat(p.Score, 'f', 4, 64)) +
			columnStyle.Render(strconv.Itoa(p.NeighborCount))
		if p.Fallback {
			line += "  " + fallbackStyle.Render("mean fallback")
		}
		fmt.Fprintln(w, line)
	}
}

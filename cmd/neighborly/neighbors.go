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

type neighborsOptions struct {
	ratings string
	user    int64
	item    int64
	k       int
	json    bool
}

func newNeighborsCmd() *cobra.Command {
	opts := &neighborsOptions{}

	cmd := &cobra.Command{
		Use:   "neighbors",
		Short: "Show the neighbors used to score one item",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, _, err := fileEngine(cmd.Context(), opts.ratings)
			if err != nil {
				return err
			}

			resp, err := engine.Neighbors(cmd.Context(), opts.user, opts.item, optionalK(cmd, opts.k))
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			renderNeighbors(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ratings, "ratings", "", "ratings file (.csv or MovieLens .dat)")
	cmd.Flags().Int64Var(&opts.user, "user", 0, "target user ID")
	cmd.Flags().Int64Var(&opts.item, "item", 0, "item ID")
	cmd.Flags().IntVarP(&opts.k, "k", "k", recommend.DefaultNeighborhoodSize, "neighborhood size")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the response as JSON")
	for _, name := range []string{"ratings", "user", "item"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func renderNeighbors(w io.Writer, resp *recommend.NeighborsResponse) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Neighbors of user %d for item %d", resp.UserID, resp.ItemID)))
	if len(resp.Neighbors) == 0 {
		fmt.Fprintln(w, fallbackStyle.Render("no rater of this item is similar to the user"))
		return
	}

	fmt.Fprintln(w, labelStyle.Render(columnStyle.Render("USER")+columnStyle.Render("SIMILARITY")+
		columnStyle.Render("MEAN")+columnStyle.Render("RATING")))
	for _, n := range resp.Neighbors {
		fmt.Fprintln(w, columnStyle.Render(strconv.FormatInt(n.UserID, 10))+
			columnStyle.Render(strconv.FormatFloat(n.Similarity, 'f', 4, 64))+
			columnStyle.Render(strconv.FormatFloat(n.Mean, 'f', 4, 64))+
			columnStyle.Render(strconv.FormatFloat(n.Rating, 'f', 1, 64)))
	}
}

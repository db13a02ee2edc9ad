// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Command neighborly scores items for a user straight from a ratings file,
// explains the neighbors behind a score, and imports ratings into the
// configured store.
//
//	neighborly score --ratings ratings.csv --user 1 --items 10,20,30 -k 20
//	neighborly neighbors --ratings ratings.csv --user 1 --item 10
//	neighborly import --ratings ratings.csv
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

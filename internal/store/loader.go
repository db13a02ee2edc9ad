// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/metrics"
)

// Format identifies a ratings file layout.
type Format string

const (
	// FormatCSV is the MovieLens ratings.csv layout:
	// header "userId,movieId,rating,timestamp", comma separated.
	FormatCSV Format = "csv"

	// FormatDat is the MovieLens ratings.dat layout:
	// "UserID::MovieID::Rating::Timestamp", no header.
	FormatDat Format = "dat"
)

// DefaultImportBatchSize is the number of records handed to a Writer at once.
const DefaultImportBatchSize = 5000

// LoadStats summarizes a load.
type LoadStats struct {
	Rows      int           `json:"rows"`
	Loaded    int           `json:"loaded"`
	Malformed int           `json:"malformed"`
	Users     int           `json:"users"`
	Items     int           `json:"items"`
	Duration  time.Duration `json:"duration"`
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".dat":
		return FormatDat, nil
	default:
		return "", fmt.Errorf("unrecognized ratings file extension %q (want .csv or .dat)", filepath.Ext(path))
	}
}

// LoadCSV reads all ratings from r. Malformed rows are counted and skipped.
func LoadCSV(r io.Reader, format Format) ([]Record, LoadStats, error) {
	var records []Record
	stats, err := readRatings(r, format, func(rec Record) error {
		records = append(records, rec)
		return nil
	})
	return records, stats, err
}

// LoadFile opens path, detects its format and loads it.
func LoadFile(path string) ([]Record, LoadStats, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, LoadStats{}, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()

	return LoadCSV(f, format)
}

// ImportFile streams the ratings in path into w in batches of batchSize.
func ImportFile(ctx context.Context, w Writer, path string, batchSize int) (LoadStats, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return LoadStats{}, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return LoadStats{}, fmt.Errorf("open ratings file: %w", err)
	}
	defer f.Close()

	return Import(ctx, w, f, format, batchSize)
}

// Import streams ratings from r into w in batches of batchSize.
func Import(ctx context.Context, w Writer, r io.Reader, format Format, batchSize int) (LoadStats, error) {
	if batchSize <= 0 {
		batchSize = DefaultImportBatchSize
	}

	batch := make([]Record, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.AddRatings(ctx, batch); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		metrics.RatingsImported.Add(float64(len(batch)))
		batch = batch[:0]
		return nil
	}

	stats, err := readRatings(r, format, func(rec Record) error {
		batch = append(batch, rec)
		if len(batch) < batchSize {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return flush()
	})
	if err != nil {
		return stats, err
	}
	if err := flush(); err != nil {
		return stats, err
	}

	logging.Info().
		Int("rows", stats.Rows).
		Int("loaded", stats.Loaded).
		Int("malformed", stats.Malformed).
		Int("users", stats.Users).
		Int("items", stats.Items).
		Dur("duration", stats.Duration).
		Msg("ratings import complete")
	return stats, nil
}

// readRatings parses r and calls emit for each valid record.
func readRatings(r io.Reader, format Format, emit func(Record) error) (LoadStats, error) {
	start := time.Now()
	var stats LoadStats
	users := make(map[int64]struct{})
	items := make(map[int64]struct{})

	handle := func(fields []string) error {
		stats.Rows++
		rec, err := parseFields(fields)
		if err != nil {
			stats.Malformed++
			return nil
		}
		users[rec.UserID] = struct{}{}
		items[rec.ItemID] = struct{}{}
		stats.Loaded++
		return emit(rec)
	}

	var err error
	switch format {
	case FormatCSV:
		err = readCSV(r, handle)
	case FormatDat:
		err = readDat(r, handle)
	default:
		err = fmt.Errorf("unknown ratings format %q", format)
	}

	stats.Users = len(users)
	stats.Items = len(items)
	stats.Duration = time.Since(start)
	return stats, err
}

func readCSV(r io.Reader, handle func([]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	first := true
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Malformed quoting on one line; count it and move on.
				if hErr := handle(nil); hErr != nil {
					return hErr
				}
				continue
			}
			return fmt.Errorf("read csv: %w", err)
		}
		if first {
			first = false
			if len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "userId") {
				continue
			}
		}
		if err := handle(fields); err != nil {
			return err
		}
	}
}

func readDat(r io.Reader, handle func([]string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := handle(strings.Split(line, "::")); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read dat: %w", err)
	}
	return nil
}

// parseFields converts user, item, rating and an optional unix timestamp.
func parseFields(fields []string) (Record, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return Record{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(fields))
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("user id: %w", err)
	}
	itemID, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("item id: %w", err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("rating: %w", err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Record{}, errors.New("rating is not finite")
	}

	rec := Record{UserID: userID, ItemID: itemID, Value: value}
	if len(fields) == 4 {
		secs, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("timestamp: %w", err)
		}
		rec.Timestamp = time.Unix(secs, 0).UTC()
	}
	return rec, nil
}

// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/metrics"
	"github.com/tomtom215/neighborly/internal/recommend"
)

// Key layout: r/<user:020d>/<item:020d>. Zero padding keeps lexical order
// equal to numeric order for non-negative IDs.
const prefixRating = "r/"

type badgerValue struct {
	Value float64   `json:"value"`
	TS    time.Time `json:"ts"`
}

// Badger stores ratings in an embedded BadgerDB.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a BadgerDB at cfg.Path.
func OpenBadger(cfg config.BadgerConfig) (*Badger, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Badger ratings store opened")
	return &Badger{db: db}, nil
}

func ratingKey(userID, itemID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d/%020d", prefixRating, userID, itemID))
}

func userPrefix(userID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d/", prefixRating, userID))
}

// parseRatingKey extracts the user and item IDs from a rating key.
func parseRatingKey(key []byte) (userID, itemID int64, err error) {
	const width = 20
	want := len(prefixRating) + width + 1 + width
	if len(key) != want || string(key[:len(prefixRating)]) != prefixRating {
		return 0, 0, fmt.Errorf("malformed rating key %q", key)
	}
	rest := key[len(prefixRating):]
	userID, err = strconv.ParseInt(string(rest[:width]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed user in key %q: %w", key, err)
	}
	itemID, err = strconv.ParseInt(string(rest[width+1:]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed item in key %q: %w", key, err)
	}
	return userID, itemID, nil
}

// Name returns the backend identifier.
func (b *Badger) Name() string { return config.BackendBadger }

// Ping reports whether the database is open.
func (b *Badger) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerBatchSize bounds the number of writes per transaction.
const badgerBatchSize = 1000

// AddRatings writes records in transactions of at most badgerBatchSize keys.
func (b *Badger) AddRatings(ctx context.Context, records []Record) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendBadger, "add", time.Since(start), err) }()

	for lo := 0; lo < len(records); lo += badgerBatchSize {
		if err = ctx.Err(); err != nil {
			return err
		}
		hi := min(lo+badgerBatchSize, len(records))
		if err = b.db.Update(func(txn *badger.Txn) error {
			for _, r := range records[lo:hi] {
				if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
					continue
				}
				if putErr := putRating(txn, r); putErr != nil {
					return putErr
				}
			}
			return nil
		}); err != nil {
			return fmt.Errorf("write ratings: %w", err)
		}
	}
	return nil
}

// putRating writes r unless the stored rating for the pair is strictly newer.
// Reads inside the transaction observe its own pending writes.
func putRating(txn *badger.Txn, r Record) error {
	key := ratingKey(r.UserID, r.ItemID)

	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return err
	default:
		var stored badgerValue
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return fmt.Errorf("decode rating %q: %w", key, err)
		}
		if !newer(r.Timestamp, stored.TS) {
			return nil
		}
	}

	data, err := json.Marshal(badgerValue{Value: r.Value, TS: r.Timestamp.UTC()})
	if err != nil {
		return fmt.Errorf("marshal rating: %w", err)
	}
	return txn.SetEntry(badger.NewEntry(key, data))
}

// GetRatingHistory returns the user's ratings ordered by item ID.
func (b *Badger) GetRatingHistory(ctx context.Context, userID int64) (history []recommend.Rating, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendBadger, "history", time.Since(start), err) }()

	history = []recommend.Rating{}
	err = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := userPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			item := it.Item()
			_, itemID, keyErr := parseRatingKey(item.Key())
			if keyErr != nil {
				logging.Warn().Err(keyErr).Msg("skipping malformed rating key")
				continue
			}

			var v badgerValue
			if valErr := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			}); valErr != nil {
				return fmt.Errorf("decode rating %q: %w", item.Key(), valErr)
			}
			history = append(history, recommend.Rating{ItemID: itemID, Value: v.Value, Timestamp: v.TS})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return history, nil
}

// AllUserIDs scans keys only and returns the distinct users, ascending.
func (b *Badger) AllUserIDs(ctx context.Context) (ids []int64, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendBadger, "enumerate", time.Since(start), err) }()

	ids = []int64{}
	err = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixRating)
		last := int64(-1)
		first := true
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			userID, _, keyErr := parseRatingKey(it.Item().Key())
			if keyErr != nil {
				continue
			}
			if first || userID != last {
				ids = append(ids, userID)
				last = userID
				first = false
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return sortedUnique(ids), nil
}

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
	"sort"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/metrics"
	"github.com/tomtom215/neighborly/internal/recommend"
)

// userDocument is the per-user layout of the MovieLens ratings collection.
// Map keys are item IDs in decimal.
type userDocument struct {
	UserID  int64                `bson:"userId"`
	Ratings map[string]float64   `bson:"ratings"`
	RatedAt map[string]time.Time `bson:"ratedAt,omitempty"`
}

// Mongo stores ratings in a MongoDB collection, one document per user.
type Mongo struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

// OpenMongo connects to MongoDB, verifies the connection and ensures the
// userId index exists.
func OpenMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx) //nolint:errcheck // best effort after failed ping
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	m := NewMongoFromClient(client, cfg.Database, cfg.Collection)
	m.timeout = timeout
	if err := m.ensureIndex(ctx); err != nil {
		_ = client.Disconnect(ctx) //nolint:errcheck // best effort after failed setup
		return nil, err
	}

	logging.Info().
		Str("database", cfg.Database).
		Str("collection", cfg.Collection).
		Msg("MongoDB ratings store opened")
	return m, nil
}

// NewMongoFromClient wraps an existing client. The caller keeps ownership
// of the client until Close is called.
func NewMongoFromClient(client *mongo.Client, database, collection string) *Mongo {
	return &Mongo{
		client:  client,
		coll:    client.Database(database).Collection(collection),
		timeout: 10 * time.Second,
	}
}

func (m *Mongo) ensureIndex(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo create userId index: %w", err)
	}
	return nil
}

// Name returns the backend identifier.
func (m *Mongo) Name() string { return config.BackendMongo }

// Ping checks the connection to the primary.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// AddRatings upserts records with one update per user. A stored rating is
// kept when it is strictly newer than the incoming one.
func (m *Mongo) AddRatings(ctx context.Context, records []Record) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendMongo, "add", time.Since(start), err) }()

	byUser := make(map[int64]map[int64]Record)
	for _, r := range records {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		items, ok := byUser[r.UserID]
		if !ok {
			items = make(map[int64]Record)
			byUser[r.UserID] = items
		}
		if cur, ok := items[r.ItemID]; ok && !newer(r.Timestamp, cur.Timestamp) {
			continue
		}
		items[r.ItemID] = r
	}
	if len(byUser) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(byUser))
	for userID, items := range byUser {
		existing, loadErr := m.loadDocument(ctx, userID)
		if loadErr != nil {
			err = loadErr
			return err
		}

		set := bson.D{}
		for itemID, r := range items {
			key := strconv.FormatInt(itemID, 10)
			if ts, ok := existing.RatedAt[key]; ok && !newer(r.Timestamp, ts) {
				continue
			}
			set = append(set,
				bson.E{Key: "ratings." + key, Value: r.Value},
				bson.E{Key: "ratedAt." + key, Value: r.Timestamp.UTC()},
			)
		}
		if len(set) == 0 {
			continue
		}

		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "userId", Value: userID}}).
			SetUpdate(bson.D{{Key: "$set", Value: set}}).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}

	if _, err = m.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("mongo bulk write: %w", err)
	}
	return nil
}

func (m *Mongo) loadDocument(ctx context.Context, userID int64) (userDocument, error) {
	var doc userDocument
	err := m.coll.FindOne(ctx, bson.D{{Key: "userId", Value: userID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return userDocument{UserID: userID}, nil
	}
	if err != nil {
		return doc, fmt.Errorf("mongo find user %d: %w", userID, err)
	}
	return doc, nil
}

// GetRatingHistory returns the user's ratings ordered by item ID.
func (m *Mongo) GetRatingHistory(ctx context.Context, userID int64) (history []recommend.Rating, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendMongo, "history", time.Since(start), err) }()

	doc, err := m.loadDocument(ctx, userID)
	if err != nil {
		return nil, err
	}

	history = make([]recommend.Rating, 0, len(doc.Ratings))
	for key, value := range doc.Ratings {
		itemID, parseErr := strconv.ParseInt(key, 10, 64)
		if parseErr != nil {
			logging.Warn().Str("key", key).Int64("user_id", userID).Msg("skipping non-numeric item key")
			continue
		}
		history = append(history, recommend.Rating{
			ItemID:    itemID,
			Value:     value,
			Timestamp: doc.RatedAt[key],
		})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].ItemID < history[j].ItemID })
	return history, nil
}

// AllUserIDs returns every user document's ID, ascending.
func (m *Mongo) AllUserIDs(ctx context.Context) (ids []int64, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendMongo, "enumerate", time.Since(start), err) }()

	opts := options.Find().
		SetProjection(bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: 0}}).
		SetSort(bson.D{{Key: "userId", Value: 1}})

	cursor, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find users: %w", err)
	}

	var docs []struct {
		UserID int64 `bson:"userId"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode users: %w", err)
	}

	ids = make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.UserID)
	}
	return sortedUnique(ids), nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/product-matcher/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoKeywordStore keeps keyword rows in MongoDB behind an in-memory LRU.
type MongoKeywordStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	l1Cache    *lru.Cache[string, *models.ProductKeywords]
	logger     *zap.Logger
}

// ConnectMongo opens and pings a MongoDB client.
func ConnectMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	logger.Info("Connecting to MongoDB")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// NewMongoKeywordStore uses collection in db and ensures its indexes.
// The store disconnects client on Close.
func NewMongoKeywordStore(client *mongo.Client, database, collection string, l1Size int, logger *zap.Logger) (*MongoKeywordStore, error) {
	if l1Size <= 0 {
		l1Size = 1000
	}
	l1Cache, err := lru.New[string, *models.ProductKeywords](l1Size)
	if err != nil {
		return nil, fmt.Errorf("create LRU cache: %w", err)
	}

	coll := client.Database(database).Collection(collection)

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "product_type", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "fallback", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "updated_at", Value: -1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Cannot create keyword indexes", zap.String("collection", collection), zap.Error(err))
	}

	return &MongoKeywordStore{
		client:     client,
		collection: coll,
		l1Cache:    l1Cache,
		logger:     logger,
	}, nil
}

func (s *MongoKeywordStore) Upsert(ctx context.Context, kw *models.ProductKeywords) error {
	filter := bson.M{"sku": kw.SKU}

	// Keep the original creation time across rebuilds.
	var existing models.ProductKeywords
	err := s.collection.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"created_at": 1})).Decode(&existing)
	switch {
	case err == nil:
		kw.ID = existing.ID
		kw.CreatedAt = existing.CreatedAt
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("lookup keywords for %s: %w", kw.SKU, err)
	}

	if _, err := s.collection.ReplaceOne(ctx, filter, kw, options.Replace().SetUpsert(true)); err != nil {
		s.logger.Error("Keyword upsert failed", zap.String("sku", kw.SKU), zap.Error(err))
		return fmt.Errorf("upsert keywords for %s: %w", kw.SKU, err)
	}

	s.l1Cache.Add(kw.SKU, kw)
	return nil
}

func (s *MongoKeywordStore) Get(ctx context.Context, sku string) (*models.ProductKeywords, error) {
	if kw, ok := s.l1Cache.Get(sku); ok {
		return kw, nil
	}

	var kw models.ProductKeywords
	err := s.collection.FindOne(ctx, bson.M{"sku": sku}).Decode(&kw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrKeywordsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find keywords for %s: %w", sku, err)
	}

	s.l1Cache.Add(sku, &kw)
	return &kw, nil
}

func (s *MongoKeywordStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}

// WarmUp loads the most recently updated rows into the LRU.
func (s *MongoKeywordStore) WarmUp(ctx context.Context, limit int) error {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("warm up keywords: %w", err)
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var kw models.ProductKeywords
		if err := cursor.Decode(&kw); err != nil {
			s.logger.Warn("Cannot decode keyword row", zap.Error(err))
			continue
		}
		s.l1Cache.Add(kw.SKU, &kw)
		count++
	}

	s.logger.Info("Keyword cache warmed up", zap.Int("loaded", count))
	return cursor.Err()
}

func (s *MongoKeywordStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

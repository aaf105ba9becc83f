package journal

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig содержит настройки подключения журнала к MongoDB.
type MongoConfig struct {
	URI        string // например mongodb://localhost:27017
	Database   string // например minegame
	Collection string // например events
}

// MongoJournal хранит события в коллекции MongoDB
type MongoJournal struct {
	client     *mongo.Client
	collection *mongo.Collection
	ctxTimeout time.Duration
}

// NewMongoJournal подключается к MongoDB и создаёт индексы
func NewMongoJournal(cfg MongoConfig) (*MongoJournal, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "minegame"
	}
	if cfg.Collection == "" {
		cfg.Collection = "events"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	j := &MongoJournal{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		ctxTimeout: 5 * time.Second,
	}
	if err := j.ensureIndexes(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return j, nil
}

func (m *MongoJournal) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.ctxTimeout)
	defer cancel()
	byTime := mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("timestamp_desc"),
	}
	byType := mongo.IndexModel{
		Keys:    bson.D{{Key: "type", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("type_timestamp"),
	}
	if _, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{byTime, byType}); err != nil {
		return fmt.Errorf("индексы журнала: %w", err)
	}
	return nil
}

// Record вставляет запись. Повторная доставка того же события игнорируется.
func (m *MongoJournal) Record(ctx context.Context, e Entry) error {
	ctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	_, err := m.collection.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// Recent возвращает последние записи
func (m *MongoJournal) Recent(ctx context.Context, eventType string, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	filter := bson.M{}
	if eventType != "" {
		filter["type"] = eventType
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала: %w", err)
	}
	defer cur.Close(ctx)

	var out []Entry
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("разбор журнала: %w", err)
	}
	return out, nil
}

// Close отключается от MongoDB
func (m *MongoJournal) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/recolor/pkg/palette"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "recolor"
	DefaultMongoCollection = "theme_configs"
)

// MongoStore keeps theme configurations in a MongoDB collection, one
// document per theme keyed by the theme name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// NewMongoStore connects to MongoDB and pings the server.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// configDoc is the stored form of a ThemeConfig. The palette is kept as an
// ordered document so slot order survives a round trip.
type configDoc struct {
	Theme       string    `bson:"_id"`
	Palette     bson.D    `bson:"palette"`
	Scheme      string    `bson:"scheme,omitempty"`
	BundleID    string    `bson:"bundle_id"`
	Key         string    `bson:"key"`
	Dir         string    `bson:"dir"`
	Generation  int64     `bson:"generation"`
	Dirs        []string  `bson:"dirs,omitempty"`
	Stylesheets []string  `bson:"stylesheets"`
	Files       []string  `bson:"files"`
	Screenshot  string    `bson:"screenshot,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDoc(cfg *ThemeConfig) configDoc {
	doc := configDoc{
		Theme:       cfg.Theme,
		Scheme:      cfg.Scheme,
		BundleID:    cfg.BundleID,
		Key:         cfg.Key,
		Dir:         cfg.Dir,
		Generation:  cfg.Generation,
		Dirs:        cfg.Dirs,
		Stylesheets: cfg.Stylesheets,
		Files:       cfg.Files,
		Screenshot:  cfg.Screenshot,
		UpdatedAt:   cfg.UpdatedAt,
	}
	for _, slot := range cfg.Palette.Slots() {
		hex, _ := cfg.Palette.Get(slot)
		doc.Palette = append(doc.Palette, bson.E{Key: slot, Value: hex})
	}
	return doc
}

func fromDoc(doc configDoc) (*ThemeConfig, error) {
	p := palette.New()
	for _, e := range doc.Palette {
		hex, _ := e.Value.(string)
		if err := p.Set(e.Key, hex); err != nil {
			return nil, fmt.Errorf("theme %s: %w", doc.Theme, err)
		}
	}
	return &ThemeConfig{
		Theme:       doc.Theme,
		Palette:     p,
		Scheme:      doc.Scheme,
		BundleID:    doc.BundleID,
		Key:         doc.Key,
		Dir:         doc.Dir,
		Generation:  doc.Generation,
		Dirs:        doc.Dirs,
		Stylesheets: doc.Stylesheets,
		Files:       doc.Files,
		Screenshot:  doc.Screenshot,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, theme string) (*ThemeConfig, error) {
	var doc configDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": theme}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find theme config: %w", err)
	}
	return fromDoc(doc)
}

func (s *MongoStore) Set(ctx context.Context, cfg *ThemeConfig) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": cfg.Theme}, toDoc(cfg), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store theme config: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, theme string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": theme}); err != nil {
		return fmt.Errorf("delete theme config: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*ThemeConfig, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list theme configs: %w", err)
	}
	var docs []configDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode theme configs: %w", err)
	}

	out := make([]*ThemeConfig, 0, len(docs))
	for _, doc := range docs {
		cfg, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

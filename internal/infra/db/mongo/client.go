package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	DB *mongo.Database
}

func New(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}

// EnsureIndexes creates the lookups the repositories filter on.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		hostsCollection: {
			{Keys: bsonKeys("user_id"), Options: options.Index().SetUnique(true)},
			{Keys: bsonKeys("active", "address.city")},
		},
		bookingsCollection: {
			{Keys: bsonKeys("host_id", "status")},
			{Keys: bsonKeys("pet_id", "status")},
			{Keys: bsonKeys("owner_id", "created_at")},
		},
		reviewsCollection: {
			{Keys: bsonKeys("booking_id"), Options: options.Index().SetUnique(true)},
			{Keys: bsonKeys("host_id", "created_at")},
		},
		blocksCollection: {
			{Keys: bsonKeys("host_id", "range.check_in")},
		},
	}
	for name, models := range specs {
		if _, err := c.DB.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

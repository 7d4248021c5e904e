package platform

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig 包含文档数据库连接的配置信息
type MongoConfig struct {
	URI    string
	DBName string
}

func MongoConfigFromEnv() MongoConfig {
	return MongoConfig{
		URI:    os.Getenv("MONGO_URI"),
		DBName: os.Getenv("MONGO_DBNAME"),
	}
}

// NewMongo connects to the document store holding chat conversations and
// returns the database handle. Like the SQL handle it is created once at
// startup and injected where needed.
func NewMongo(ctx context.Context, config MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client.Database(config.DBName), nil
}

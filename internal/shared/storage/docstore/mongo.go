package docstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"users-report/internal/shared/telemetry"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// Connect opens a document-store client and verifies connectivity.
// No socket timeout is set: report queries may run as long as they need.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("vacancies: connection url is empty")
	}

	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(1).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("vacancies: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("vacancies: ping: %w", err)
	}

	telemetry.Info("docstore connected", map[string]any{"source": "vacancies"})
	return client, nil
}

// Close disconnects the client, logging any failure.
func Close(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		telemetry.Error("docstore disconnect failed", map[string]any{"err": err})
		return err
	}
	return nil
}

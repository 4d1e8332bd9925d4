package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/emrgen/resumectl/internal/config"
	"github.com/emrgen/resumectl/internal/credentials"
)

// Open connects to the configured backend using the resolved credentials.
func Open(ctx context.Context, cfg *config.Config, desc *credentials.Descriptor) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQL:
		db, err := config.GetDb(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case config.BackendDynamo, "":
		awsCfg, err := desc.AWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if desc.Endpoint != "" {
				o.BaseEndpoint = aws.String(desc.Endpoint)
			}
		})
		return NewDynamoStore(client), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

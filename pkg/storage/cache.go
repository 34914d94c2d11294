package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/synaptica-ai/premium-estimator/pkg/common/logger"
)

const defaultKeyPrefix = "premium"

// PredictionCache keeps recent estimates in Redis so identical forms are
// answered without re-running the model.
type PredictionCache struct {
	client   redis.Cmdable
	prefix   string
	cacheTTL time.Duration
}

func NewPredictionCache(client redis.Cmdable, prefix string, ttl time.Duration) *PredictionCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &PredictionCache{client: client, prefix: prefix, cacheTTL: ttl}
}

// Key derives a cache key from the model version and the canonical record.
// encoding/json sorts map keys, so equal records always hash the same.
func (c *PredictionCache) Key(modelVersion string, record map[string]interface{}) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s:%s:%s", c.prefix, modelVersion, hex.EncodeToString(sum[:])), nil
}

// Get reports a miss as (0, false, nil).
func (c *PredictionCache) Get(ctx context.Context, key string) (int64, bool, error) {
	value, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	logger.Log.WithField("key", key).Debug("Prediction cache hit")
	return value, true, nil
}

func (c *PredictionCache) Set(ctx context.Context, key string, estimate int64) error {
	return c.client.Set(ctx, key, estimate, c.cacheTTL).Err()
}

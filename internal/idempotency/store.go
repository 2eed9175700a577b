package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyPrefix = "idempotency:"

// Record is a replayable response captured under an Idempotency-Key.
type Record struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Store keeps first-seen responses in redis so retried requests replay
// the original outcome. With a nil redis client every lookup misses and
// every save is a no-op.
type Store struct {
	client *redis.Client
	log    *zap.Logger
	ttl    time.Duration
}

type StoreParam struct {
	fx.In

	Client *redis.Client `optional:"true"`
	Log    *zap.Logger
}

func NewStore(p StoreParam) *Store {
	return &Store{
		client: p.Client,
		log:    p.Log.Named("idempotency"),
		ttl:    24 * time.Hour,
	}
}

// Lookup returns the recorded response for key, or nil on a miss.
func (s *Store) Lookup(ctx context.Context, key string) (*Record, error) {
	if s.client == nil || key == "" {
		return nil, nil
	}
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Remember stores the response for key unless one is already recorded.
func (s *Store) Remember(ctx context.Context, key string, rec Record) error {
	if s.client == nil || key == "" {
		return nil
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, keyPrefix+key, raw, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("idempotency key already recorded", zap.String("key", key))
	}
	return nil
}

var Module = fx.Module("idempotency",
	fx.Provide(NewStore),
)

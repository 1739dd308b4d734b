package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
)

// BreakerStore guards another store with a circuit breaker. A miss is not
// counted as a failure.
type BreakerStore struct {
	inner   SnapshotStore
	breaker *gobreaker.CircuitBreaker
}

var _ SnapshotStore = (*BreakerStore)(nil)

func NewBreakerStore(inner SnapshotStore, breaker *gobreaker.CircuitBreaker) *BreakerStore {
	return &BreakerStore{inner: inner, breaker: breaker}
}

func (s *BreakerStore) Load(ctx context.Context, key string) ([]byte, error) {
	var missed bool
	result, err := s.breaker.Execute(func() (interface{}, error) {
		data, err := s.inner.Load(ctx, key)
		if errors.Is(err, ErrSnapshotNotFound) {
			missed = true
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, wrapBreakerErr("load", err)
	}
	if missed {
		return nil, ErrSnapshotNotFound
	}
	data, _ := result.([]byte)
	return data, nil
}

func (s *BreakerStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.inner.Save(ctx, key, data)
	})
	if err != nil {
		return wrapBreakerErr("save", err)
	}
	return nil
}

func (s *BreakerStore) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}

func wrapBreakerErr(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("snapshot %s unavailable: %w", op, err)
	}
	return err
}

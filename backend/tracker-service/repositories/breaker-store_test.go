package repositories

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/yolmane/fintech-project-manager/backend/utils"
)

type failingStore struct {
	calls int
}

func (s *failingStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.calls++
	return nil, errors.New("connection refused")
}

func (s *failingStore) Save(ctx context.Context, key string, data []byte) error {
	s.calls++
	return errors.New("connection refused")
}

func (s *failingStore) Close(ctx context.Context) error { return nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestBreakerStoreOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingStore{}
	store := NewBreakerStore(inner, utils.NewBreaker("test-store", time.Minute, quietLogger()))
	ctx := context.Background()

	for i := 0; i <= utils.BreakerTripAfter; i++ {
		if err := store.Save(ctx, "k", nil); err == nil {
			t.Fatalf("expected failure on attempt %d", i)
		}
	}

	err := store.Save(ctx, "k", nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state, got %v", err)
	}
	if inner.calls != utils.BreakerTripAfter+1 {
		t.Fatalf("expected %d inner calls, got %d", utils.BreakerTripAfter+1, inner.calls)
	}
}

func TestBreakerStoreMissIsNotFailure(t *testing.T) {
	store := NewBreakerStore(NewMemoryStore(), utils.NewBreaker("test-miss", time.Minute, quietLogger()))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrSnapshotNotFound) {
			t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
		}
	}
	if err := store.Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("expected v, got %q (%v)", got, err)
	}
}

package gate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/talentos/gate"
)

type source struct {
	values map[uint]string
	loads  int
	err    error
}

func (s *source) load(_ context.Context, k uint) (string, error) {
	s.loads++
	if s.err != nil {
		return "", s.err
	}
	return s.values[k], nil
}

func TestCache_CachesValue(t *testing.T) {
	src := &source{values: map[uint]string{1: "rh"}}
	c := gate.NewCache[uint, string](src.load, 5*time.Minute)

	v, err := c.Get(context.Background(), 1)
	if err != nil || v != "rh" {
		t.Fatalf("unexpected %q %v", v, err)
	}
	src.values[1] = "master"
	v, _ = c.Get(context.Background(), 1)
	if v != "rh" {
		t.Errorf("expected cached 'rh', got %q", v)
	}
	if src.loads != 1 {
		t.Errorf("expected one load, got %d", src.loads)
	}
}

func TestCache_Invalidate(t *testing.T) {
	src := &source{values: map[uint]string{1: "rh", 2: "admin"}}
	c := gate.NewCache[uint, string](src.load, 5*time.Minute)
	_, _ = c.Get(context.Background(), 1)
	_, _ = c.Get(context.Background(), 2)

	src.values[1] = "master"
	src.values[2] = "master"
	c.Invalidate(1)
	if v, _ := c.Get(context.Background(), 1); v != "master" {
		t.Errorf("expected 'master' after invalidation, got %q", v)
	}
	if v, _ := c.Get(context.Background(), 2); v != "admin" {
		t.Errorf("expected key 2 untouched, got %q", v)
	}
}

func TestCache_InvalidateDuringLoadIsNotStored(t *testing.T) {
	src := &source{values: map[uint]string{1: "rh"}}
	var c *gate.Cache[uint, string]
	racing := true
	load := func(ctx context.Context, k uint) (string, error) {
		v, err := src.load(ctx, k)
		if racing {
			// the record changes and is invalidated while this load is in flight
			racing = false
			src.values[1] = "inactive"
			c.Invalidate(1)
		}
		return v, err
	}
	c = gate.NewCache[uint, string](load, time.Hour)

	if v, _ := c.Get(context.Background(), 1); v != "rh" {
		t.Fatalf("expected in-flight value 'rh', got %q", v)
	}
	if v, _ := c.Get(context.Background(), 1); v != "inactive" {
		t.Fatalf("stale value was cached: got %q", v)
	}
	if src.loads != 2 {
		t.Fatalf("expected a reload after the overlapping invalidation, got %d loads", src.loads)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	src := &source{values: map[uint]string{1: "rh"}}
	c := gate.NewCache[uint, string](src.load, 10*time.Millisecond)
	_, _ = c.Get(context.Background(), 1)
	src.values[1] = "admin"
	time.Sleep(20 * time.Millisecond)
	if v, _ := c.Get(context.Background(), 1); v != "admin" {
		t.Errorf("expected 'admin' after TTL expiry, got %q", v)
	}
}

func TestCache_ErrorsNotCached(t *testing.T) {
	boom := errors.New("boom")
	src := &source{values: map[uint]string{1: "rh"}, err: boom}
	c := gate.NewCache[uint, string](src.load, time.Minute)
	if _, err := c.Get(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	src.err = nil
	if v, err := c.Get(context.Background(), 1); err != nil || v != "rh" {
		t.Fatalf("expected recovery after error, got %q %v", v, err)
	}
}

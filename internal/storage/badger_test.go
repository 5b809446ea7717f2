package storage

import (
	"context"
	"reflect"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

func newTestBadger(t *testing.T, dir string, codec *Codec) *BadgerGateway {
	t.Helper()
	cfg := DefaultBadgerConfig(dir)
	cfg.SyncWrites = false
	cfg.GCInterval = 0
	g, err := NewBadgerGateway(cfg, codec, nil)
	if err != nil {
		t.Fatalf("NewBadgerGateway: %v", err)
	}
	return g
}

func TestBadgerGateway_RoundTripAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	g := newTestBadger(t, dir, nil)
	if got := g.Load(ctx); len(got) != 0 {
		t.Fatalf("fresh Load() = %+v, want empty", got)
	}
	if err := g.Save(ctx, testUsers); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := g.Save(ctx, testUsers[:1]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := newTestBadger(t, dir, nil)
	defer reopened.Close()
	if got := reopened.Load(ctx); !reflect.DeepEqual(got, testUsers[:1]) {
		t.Errorf("Load() = %+v, want %+v", got, testUsers[:1])
	}
}

func TestBadgerGateway_InMemory(t *testing.T) {
	g, err := NewBadgerGateway(BadgerConfig{InMemory: true}, nil, nil)
	if err != nil {
		t.Fatalf("NewBadgerGateway: %v", err)
	}
	defer g.Close()

	ctx := context.Background()
	if err := g.Save(ctx, []domain.User{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := g.Load(ctx); got == nil || len(got) != 0 {
		t.Errorf("Load() = %#v, want empty", got)
	}
}

func TestBadgerGateway_CorruptValueLoadsEmpty(t *testing.T) {
	g, err := NewBadgerGateway(BadgerConfig{InMemory: true}, nil, nil)
	if err != nil {
		t.Fatalf("NewBadgerGateway: %v", err)
	}
	defer g.Close()

	if err := g.db.Update(func(txn *badger.Txn) error {
		return txn.Set(usersKey, []byte("{{not json"))
	}); err != nil {
		t.Fatal(err)
	}
	if got := g.Load(context.Background()); len(got) != 0 {
		t.Errorf("Load() = %+v, want empty", got)
	}
}

func TestBadgerGateway_Sealed(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, _ := NewSealer("badger-secret-value", "")

	g := newTestBadger(t, dir, NewCodec(s))
	if err := g.Save(ctx, testUsers); err != nil {
		t.Fatalf("Save: %v", err)
	}
	g.Close()

	s2, _ := NewSealer("badger-secret-value", "")
	reopened := newTestBadger(t, dir, NewCodec(s2))
	defer reopened.Close()
	if got := reopened.Load(ctx); !reflect.DeepEqual(got, testUsers) {
		t.Errorf("Load() = %+v, want %+v", got, testUsers)
	}
}

func TestBadgerGateway_RegisterMetrics(t *testing.T) {
	g, err := NewBadgerGateway(BadgerConfig{InMemory: true}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	reg := prometheus.NewRegistry()
	g.RegisterMetrics(reg)
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) != 2 {
		t.Errorf("gathered %d metric families, want 2", len(mfs))
	}
}

func TestNewBadgerGateway_RequiresDir(t *testing.T) {
	if _, err := NewBadgerGateway(BadgerConfig{}, nil, nil); err == nil {
		t.Error("empty dir without InMemory should fail")
	}
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/yndnr/userdir-go/internal/core/domain"
)

func newSession(t *testing.T, identity string) *domain.Session {
	t.Helper()
	_, hash, err := domain.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	s, err := domain.NewSession(identity, hash)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestSessionStore_CreateAndLookup(t *testing.T) {
	store := New()
	ctx := context.Background()

	s := newSession(t, "alice")
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.GetByTokenHash(ctx, s.TokenHash)
	if err != nil {
		t.Fatalf("GetByTokenHash: %v", err)
	}
	if got.ID != s.ID || got.Identity != "alice" {
		t.Fatalf("GetByTokenHash = %+v, want %+v", got, s)
	}

	got.Identity = "mallory"
	again, _ := store.GetByTokenHash(ctx, s.TokenHash)
	if again.Identity != "alice" {
		t.Error("returned session should be a copy")
	}
}

func TestSessionStore_UnknownHash(t *testing.T) {
	store := New()
	_, err := store.GetByTokenHash(context.Background(), domain.HashToken("udtk_nope"))
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("GetByTokenHash error = %v, want ErrTokenInvalid", err)
	}
}

func TestSessionStore_DuplicateHash(t *testing.T) {
	store := New()
	ctx := context.Background()

	s := newSession(t, "alice")
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := s.Clone()
	dup.Identity = "mallory"
	if err := store.Create(ctx, dup); !errors.Is(err, domain.ErrInternalServer) {
		t.Fatalf("Create(dup) error = %v, want ErrInternalServer", err)
	}
	got, _ := store.GetByTokenHash(ctx, s.TokenHash)
	if got.Identity != "alice" {
		t.Error("duplicate create must not rebind the token")
	}
}

func TestSessionStore_EmptyHashRejected(t *testing.T) {
	store := New()
	s := &domain.Session{ID: "udss-x", Identity: "alice"}
	if err := store.Create(context.Background(), s); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("Create error = %v, want ErrInvalidArgument", err)
	}
}

func TestSessionStore_InvalidIDRejected(t *testing.T) {
	store := New()
	s := newSession(t, "alice")
	s.ID = "ssid-" + s.ID[len(domain.SessionIDPrefix):]
	if err := store.Create(context.Background(), s); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("Create error = %v, want ErrInvalidArgument", err)
	}
	if store.Count() != 0 {
		t.Error("rejected session was stored")
	}
}

func TestSessionStore_ListByIdentity(t *testing.T) {
	store := New(WithShardCount(4))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Create(ctx, newSession(t, "alice")); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := store.Create(ctx, newSession(t, "bob")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := store.ListByIdentity(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByIdentity: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].CreatedAt > list[i].CreatedAt {
			t.Error("ListByIdentity should be ordered by CreatedAt")
		}
	}

	none, _ := store.ListByIdentity(ctx, "nobody")
	if none == nil || len(none) != 0 {
		t.Errorf("ListByIdentity(nobody) = %v, want empty", none)
	}

	if store.Count() != 4 {
		t.Errorf("Count() = %d, want 4", store.Count())
	}
	if store.CountIdentities() != 2 {
		t.Errorf("CountIdentities() = %d, want 2", store.CountIdentities())
	}
}

func TestSessionStore_ConcurrentCreate(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, hash, _ := domain.GenerateToken()
			s, _ := domain.NewSession(fmt.Sprintf("user-%d", i%5), hash)
			if err := store.Create(ctx, s); err != nil {
				t.Errorf("Create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if store.Count() != 50 {
		t.Errorf("Count() = %d, want 50", store.Count())
	}
	if store.CountIdentities() != 5 {
		t.Errorf("CountIdentities() = %d, want 5", store.CountIdentities())
	}
}

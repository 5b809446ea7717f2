package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"testing"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/core/service"
	"github.com/yndnr/userdir-go/internal/storage/memory"
)

// UserCounts are the collection sizes used for directory and codec
// benchmarks.
var UserCounts = []int{100, 1000, 10000}

// SessionCounts are the session table sizes used for resolve benchmarks.
var SessionCounts = []int{1000, 10000, 100000}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// discardPersister accepts every save.
type discardPersister struct{}

func (discardPersister) Save(context.Context, []domain.User) error { return nil }

func makeUsers(n int) []domain.User {
	users := make([]domain.User, n)
	for i := range users {
		users[i] = domain.User{
			Username:  fmt.Sprintf("user-%d", i),
			RealName:  fmt.Sprintf("User Number %d", i),
			Email:     fmt.Sprintf("user-%d@example.com", i),
			CreatedBy: fmt.Sprintf("owner-%d", i%50),
		}
	}
	return users
}

// newSessions returns a session service with count minted tokens.
func newSessions(b *testing.B, count int) (*service.SessionService, []string) {
	b.Helper()
	svc := service.NewSessionService(memory.New(), service.WithSessionLogger(quiet))
	tokens := make([]string, count)
	for i := range tokens {
		resp, err := svc.Mint(context.Background(), fmt.Sprintf("identity-%d", i%1000))
		if err != nil {
			b.Fatalf("Mint failed: %v", err)
		}
		tokens[i] = resp.Token
	}
	return svc, tokens
}

// reportMemory reports heap usage after a forced GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
}

func runWithCounts(b *testing.B, label string, counts []int, fn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("%s_%d", label, count), func(b *testing.B) {
			fn(b, count)
		})
	}
}

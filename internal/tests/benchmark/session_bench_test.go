package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/yndnr/userdir-go/internal/core/service"
	"github.com/yndnr/userdir-go/internal/storage/memory"
)

func BenchmarkSessionMint(b *testing.B) {
	ctx := context.Background()
	svc := service.NewSessionService(memory.New(), service.WithSessionLogger(quiet))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Mint(ctx, fmt.Sprintf("bench-%d", i%100)); err != nil {
			b.Fatalf("Mint failed: %v", err)
		}
	}
	b.StopTimer()
	reportMemory(b, "mem")
}

func BenchmarkSessionResolve(b *testing.B) {
	runWithCounts(b, "sessions", SessionCounts, func(b *testing.B, count int) {
		ctx := context.Background()
		svc, tokens := newSessions(b, count)

		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := svc.Resolve(ctx, tokens[i%len(tokens)]); err != nil {
				b.Fatalf("Resolve failed: %v", err)
			}
		}
	})
}

func BenchmarkSessionResolveParallel(b *testing.B) {
	ctx := context.Background()
	svc, tokens := newSessions(b, 10000)

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, err := svc.Resolve(ctx, tokens[i%len(tokens)]); err != nil {
				b.Errorf("Resolve failed: %v", err)
				return
			}
			i++
		}
	})
}

func BenchmarkSessionResolveUnknown(b *testing.B) {
	ctx := context.Background()
	svc, _ := newSessions(b, 10000)

	other := service.NewSessionService(memory.New(), service.WithSessionLogger(quiet))
	resp, _ := other.Mint(ctx, "stranger")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Resolve(ctx, resp.Token); err == nil {
			b.Fatal("foreign token resolved")
		}
	}
}

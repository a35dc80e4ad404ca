package memory

import (
	"context"
	"testing"

	"github.com/yndnr/filedrop/internal/core/domain"
)

func BenchmarkStore_InsertRemove(b *testing.B) {
	store := New()
	ctx := context.Background()
	payload := make([]byte, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tok, err := store.Insert(ctx, domain.NewStoredObject("bench.bin", "", payload))
		if err != nil {
			b.Fatal(err)
		}
		_ = store.Remove(ctx, tok)
	}
}

func BenchmarkStore_FetchParallel(b *testing.B) {
	store := New()
	ctx := context.Background()

	tok, err := store.Insert(ctx, domain.NewStoredObject("bench.bin", "", make([]byte, 1024)))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := store.Fetch(ctx, tok); err != nil {
				b.Error(err)
			}
		}
	})
}

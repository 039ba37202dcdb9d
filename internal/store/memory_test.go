package store

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertPreservesFulfilled(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Upsert(ctx, 1, "15.03.1990 12:00"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.MarkFulfilled(ctx, 1); err != nil {
		t.Fatalf("mark fulfilled: %v", err)
	}

	// A returning buyer re-submits their birth data.
	if err := s.Upsert(ctx, 1, "16.03.1990 09:30"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rec, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.Fulfilled {
		t.Error("fulfilled flag lost after re-upsert")
	}
	if rec.BirthData != "16.03.1990 09:30" {
		t.Errorf("birth_data = %q, want updated value", rec.BirthData)
	}
}

func TestMarkFulfilledIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Upsert(ctx, 2, "01.01.2000 12:00"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.MarkFulfilled(ctx, 2); err != nil {
			t.Fatalf("mark fulfilled #%d: %v", i+1, err)
		}
	}
	rec, err := s.Get(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.Fulfilled {
		t.Error("record not fulfilled")
	}
}

func TestGetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkFulfilledMissing(t *testing.T) {
	s := NewMemoryStore()
	if err := s.MarkFulfilled(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for id := int64(1); id <= 3; id++ {
		if err := s.Upsert(ctx, id, "01.01.2000 12:00"); err != nil {
			t.Fatalf("upsert %d: %v", id, err)
		}
	}
	if err := s.MarkFulfilled(ctx, 2); err != nil {
		t.Fatalf("mark fulfilled: %v", err)
	}

	total, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	paid, err := s.CountFulfilled(ctx)
	if err != nil {
		t.Fatalf("count fulfilled: %v", err)
	}
	if paid != 1 {
		t.Errorf("fulfilled = %d, want 1", paid)
	}
}

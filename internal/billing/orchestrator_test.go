package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/tonkolab/astrobot/internal/birthdata"
	"github.com/tonkolab/astrobot/internal/config"
	"github.com/tonkolab/astrobot/internal/store"
)

type stubGenerator struct {
	full    string
	fullErr error
	calls   int
}

func (s *stubGenerator) Preview(context.Context, birthdata.BirthData) (string, error) {
	return "", nil
}

func (s *stubGenerator) Full(context.Context, birthdata.BirthData) (string, error) {
	s.calls++
	return s.full, s.fullErr
}

func newOrchestrator(gen *stubGenerator) (*Orchestrator, *store.MemoryStore) {
	users := store.NewMemoryStore()
	cfg := config.FunnelConfig{PriceStars: 99, PayloadTag: "astro2026"}
	return NewOrchestrator(cfg, users, gen), users
}

func TestInvoiceShape(t *testing.T) {
	o, _ := newOrchestrator(&stubGenerator{})
	inv := o.Invoice()

	if inv.Currency != "XTR" {
		t.Errorf("currency = %q, want XTR", inv.Currency)
	}
	if inv.Token != "" {
		t.Errorf("stars invoice must not carry a provider token, got %q", inv.Token)
	}
	if inv.Payload != "astro2026" {
		t.Errorf("payload = %q", inv.Payload)
	}
	if len(inv.Prices) != 1 || inv.Prices[0].Amount != 99 {
		t.Errorf("prices = %+v", inv.Prices)
	}
}

func TestApproveAlwaysAccepts(t *testing.T) {
	o, _ := newOrchestrator(&stubGenerator{})
	// No record exists yet; checkout is still approved.
	if !o.Approve(context.Background(), 42, "astro2026") {
		t.Error("approve returned false")
	}
}

func TestFulfillHappyPath(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{full: "your full forecast"}
	o, users := newOrchestrator(gen)

	if err := users.Upsert(ctx, 7, "15.03.1990 12:00"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	text, err := o.Fulfill(ctx, 7)
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if text != "your full forecast" {
		t.Errorf("text = %q", text)
	}

	rec, err := users.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.Fulfilled {
		t.Error("record not marked fulfilled")
	}
}

func TestFulfillNoRecord(t *testing.T) {
	o, _ := newOrchestrator(&stubGenerator{full: "x"})
	if _, err := o.Fulfill(context.Background(), 404); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("err = %v, want ErrNoRecord", err)
	}
}

func TestFulfillGenerationFailureLeavesUnfulfilled(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{fullErr: errors.New("backend down")}
	o, users := newOrchestrator(gen)

	if err := users.Upsert(ctx, 7, "15.03.1990 12:00"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := o.Fulfill(ctx, 7); err == nil {
		t.Fatal("expected error")
	}

	rec, _ := users.Get(ctx, 7)
	if rec.Fulfilled {
		t.Error("record marked fulfilled despite generation failure")
	}
}

func TestFulfillRepeatedPayment(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{full: "forecast"}
	o, users := newOrchestrator(gen)

	if err := users.Upsert(ctx, 7, "15.03.1990 12:00"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := o.Fulfill(ctx, 7); err != nil {
			t.Fatalf("fulfill #%d: %v", i+1, err)
		}
	}
	if gen.calls != 2 {
		t.Errorf("generator called %d times, want 2", gen.calls)
	}
}

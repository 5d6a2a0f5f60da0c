package domain

import (
	"context"
	"errors"
	"testing"
)

func TestTierValid(t *testing.T) {
	for _, tier := range []Tier{TierMinimal, TierStandard, TierFull} {
		if !tier.Valid() {
			t.Errorf("%s should be valid", tier)
		}
	}
	if Tier("huge").Valid() {
		t.Error("unknown tier should be invalid")
	}
}

func TestTierDetailRank(t *testing.T) {
	if !(TierMinimal.DetailRank() < TierStandard.DetailRank() &&
		TierStandard.DetailRank() < TierFull.DetailRank()) {
		t.Error("detail ranks should order minimal < standard < full")
	}
	if Tier("bogus").DetailRank() != 0 {
		t.Error("unknown tier should rank 0")
	}
}

func testDescriptor() *AgentDescriptor {
	return &AgentDescriptor{
		ID:       "ui-ux-agent",
		Name:     "UI/UX Agent",
		Minimal:  &Representation{Tier: TierMinimal, Format: FormatJSON, Tokens: 100},
		Standard: &Representation{Tier: TierStandard, Format: FormatJSON, Tokens: 250},
		Full:     Representation{Tier: TierFull, Format: FormatMarkdown, Tokens: 4066},
	}
}

func TestDescriptorValidate(t *testing.T) {
	if err := testDescriptor().Validate(); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}
}

func TestDescriptorValidateMonotonicity(t *testing.T) {
	desc := testDescriptor()
	desc.Standard.Tokens = 50 // smaller than minimal
	err := desc.Validate()
	if !errors.Is(err, ErrTierInvariant) {
		t.Fatalf("want ErrTierInvariant, got %v", err)
	}

	desc = testDescriptor()
	desc.Full.Tokens = 200 // smaller than standard
	if !errors.Is(desc.Validate(), ErrTierInvariant) {
		t.Fatal("full smaller than standard should violate invariant")
	}
}

func TestDescriptorValidateRequiresID(t *testing.T) {
	desc := testDescriptor()
	desc.ID = ""
	if !errors.Is(desc.Validate(), ErrInvalidDescriptor) {
		t.Fatal("descriptor without id should be invalid")
	}
}

func TestDescriptorValidateRequiresFullTokens(t *testing.T) {
	desc := testDescriptor()
	desc.Full.Tokens = 0
	if !errors.Is(desc.Validate(), ErrInvalidDescriptor) {
		t.Fatal("descriptor without full token count should be invalid")
	}
}

func TestTiersByDetailOrder(t *testing.T) {
	reps := testDescriptor().TiersByDetail()
	if len(reps) != 3 {
		t.Fatalf("want 3 tiers, got %d", len(reps))
	}
	if reps[0].Tier != TierFull || reps[1].Tier != TierStandard || reps[2].Tier != TierMinimal {
		t.Errorf("wrong order: %v %v %v", reps[0].Tier, reps[1].Tier, reps[2].Tier)
	}
}

func TestTiersByDetailSkipsMissing(t *testing.T) {
	desc := testDescriptor()
	desc.Standard = nil
	reps := desc.TiersByDetail()
	if len(reps) != 2 {
		t.Fatalf("want 2 tiers, got %d", len(reps))
	}
	if reps[0].Tier != TierFull || reps[1].Tier != TierMinimal {
		t.Errorf("wrong order with missing standard: %v %v", reps[0].Tier, reps[1].Tier)
	}
}

func TestSmallest(t *testing.T) {
	desc := testDescriptor()
	if got := desc.Smallest().Tier; got != TierMinimal {
		t.Errorf("Smallest = %v, want minimal", got)
	}

	desc.Minimal = nil
	if got := desc.Smallest().Tier; got != TierStandard {
		t.Errorf("Smallest without minimal = %v, want standard", got)
	}

	desc.Standard = nil
	if got := desc.Smallest().Tier; got != TierFull {
		t.Errorf("Smallest with only full = %v, want full", got)
	}
}

func TestRequestIDContext(t *testing.T) {
	id := NewRequestID()
	if len(id) != 26 {
		t.Fatalf("ULID length = %d, want 26", len(id))
	}

	ctx := ContextWithRequestID(context.Background(), id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("RequestIDFromContext = %q, want %q", got, id)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context should yield empty id, got %q", got)
	}
}

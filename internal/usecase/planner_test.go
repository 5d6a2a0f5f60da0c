package usecase

import (
	"context"
	"errors"
	"testing"

	"promptdeck/internal/domain"
)

func newTestPlanner(t *testing.T, descs ...*domain.AgentDescriptor) *Planner {
	t.Helper()
	reg := NewRegistry(testLogger())
	for _, d := range descs {
		if err := reg.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.ID, err)
		}
	}
	return NewPlanner(reg, testLogger())
}

func TestPlanAllFullWhenBudgetIsLarge(t *testing.T) {
	p := newTestPlanner(t, sampleDescriptor("a"), sampleDescriptor("b"))

	plan, err := p.Plan(context.Background(), []string{"a", "b"}, 100000)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, sel := range plan.Selections {
		if sel.Tier != domain.TierFull {
			t.Errorf("%s at %v, want full", sel.AgentID, sel.Tier)
		}
	}
	if plan.TotalTokens != 2*4066 {
		t.Errorf("TotalTokens = %d, want %d", plan.TotalTokens, 2*4066)
	}
}

func TestPlanFloorsAtMinimal(t *testing.T) {
	p := newTestPlanner(t, sampleDescriptor("a"), sampleDescriptor("b"))

	// Just enough for both minimals, no upgrades.
	plan, err := p.Plan(context.Background(), []string{"a", "b"}, 200)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, sel := range plan.Selections {
		if sel.Tier != domain.TierMinimal {
			t.Errorf("%s at %v, want minimal", sel.AgentID, sel.Tier)
		}
	}
	if plan.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", plan.Remaining)
	}
}

func TestPlanUpgradesFairly(t *testing.T) {
	p := newTestPlanner(t, sampleDescriptor("a"), sampleDescriptor("b"))

	// 200 floor + room to lift both to standard (250 each = 500) but not
	// to full. One tier per pass: both should land on standard.
	plan, err := p.Plan(context.Background(), []string{"a", "b"}, 600)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, sel := range plan.Selections {
		if sel.Tier != domain.TierStandard {
			t.Errorf("%s at %v, want standard", sel.AgentID, sel.Tier)
		}
	}
	if plan.TotalTokens != 500 {
		t.Errorf("TotalTokens = %d, want 500", plan.TotalTokens)
	}
}

func TestPlanInsufficientBudget(t *testing.T) {
	p := newTestPlanner(t, sampleDescriptor("a"), sampleDescriptor("b"))

	_, err := p.Plan(context.Background(), []string{"a", "b"}, 150)
	if !errors.Is(err, domain.ErrInsufficientBudget) {
		t.Fatalf("want ErrInsufficientBudget, got %v", err)
	}
	var be *domain.BudgetError
	if !errors.As(err, &be) {
		t.Fatal("want *BudgetError")
	}
	if be.MinTokens != 200 {
		t.Errorf("MinTokens = %d, want 200 (sum of minimals)", be.MinTokens)
	}
}

func TestPlanUnknownAgent(t *testing.T) {
	p := newTestPlanner(t, sampleDescriptor("a"))
	_, err := p.Plan(context.Background(), []string{"a", "ghost"}, 1000)
	if !errors.Is(err, domain.ErrAgentNotFound) {
		t.Fatalf("want ErrAgentNotFound, got %v", err)
	}
}

func TestPlanDuplicateAgent(t *testing.T) {
	p := newTestPlanner(t, sampleDescriptor("a"))
	_, err := p.Plan(context.Background(), []string{"a", "a"}, 1000)
	if !errors.Is(err, domain.ErrDuplicateAgent) {
		t.Fatalf("want ErrDuplicateAgent, got %v", err)
	}
}

func TestPlanNegativeBudget(t *testing.T) {
	p := newTestPlanner(t, sampleDescriptor("a"))
	_, err := p.Plan(context.Background(), []string{"a"}, -5)
	if !errors.Is(err, domain.ErrInvalidBudget) {
		t.Fatalf("want ErrInvalidBudget, got %v", err)
	}
}

func TestPlanSkipsMissingTiersOnUpgrade(t *testing.T) {
	desc := sampleDescriptor("a")
	desc.Standard = nil
	p := newTestPlanner(t, desc)

	// Enough for full: minimal floor upgrades straight to full, skipping
	// the missing standard tier.
	plan, err := p.Plan(context.Background(), []string{"a"}, 5000)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Selections[0].Tier != domain.TierFull {
		t.Errorf("Tier = %v, want full", plan.Selections[0].Tier)
	}
}

func TestPlanEmptyAgentList(t *testing.T) {
	p := newTestPlanner(t)
	plan, err := p.Plan(context.Background(), nil, 100)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Selections) != 0 || plan.TotalTokens != 0 || plan.Remaining != 100 {
		t.Errorf("unexpected empty plan: %+v", plan)
	}
}

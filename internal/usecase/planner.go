package usecase

import (
	"context"
	"log/slog"

	"promptdeck/internal/domain"
	"promptdeck/internal/infra/tracer"
)

// Plan is the outcome of allocating a shared budget across agents.
type Plan struct {
	Selections  []domain.TierSelection `json:"selections"`
	TotalTokens int                    `json:"total_tokens"`
	Remaining   int                    `json:"remaining"`
}

// Planner allocates one token budget across several agents: every agent
// starts at its smallest available tier, then tiers are upgraded greedily
// (in request order) while budget remains.
type Planner struct {
	registry *Registry
	logger   *slog.Logger
}

// NewPlanner creates a Planner over the given registry.
func NewPlanner(registry *Registry, logger *slog.Logger) *Planner {
	return &Planner{registry: registry, logger: logger}
}

// Plan computes tier assignments for agentIDs within budgetTokens.
// Returns ErrInvalidBudget for a negative budget, ErrAgentNotFound for an
// unknown ID, ErrDuplicateAgent for a repeated ID, and a *BudgetError
// (with MinTokens = sum of the smallest tiers) when even the minimal
// assignment does not fit.
func (p *Planner) Plan(ctx context.Context, agentIDs []string, budgetTokens int) (Plan, error) {
	_, span := tracer.StartSpan(ctx, "planner.plan")
	defer span.End()
	span.SetAttributes(
		tracer.IntAttr("agents", len(agentIDs)),
		tracer.IntAttr("budget_tokens", budgetTokens),
	)

	if budgetTokens < 0 {
		err := domain.NewDomainError("Planner.Plan", domain.ErrInvalidBudget, "")
		tracer.RecordError(span, err)
		return Plan{}, err
	}

	descs := make([]*domain.AgentDescriptor, 0, len(agentIDs))
	seen := make(map[string]bool, len(agentIDs))
	for _, id := range agentIDs {
		if seen[id] {
			err := domain.NewDomainError("Planner.Plan", domain.ErrDuplicateAgent, id)
			tracer.RecordError(span, err)
			return Plan{}, err
		}
		seen[id] = true

		desc, err := p.registry.Get(id)
		if err != nil {
			tracer.RecordError(span, err)
			return Plan{}, err
		}
		descs = append(descs, desc)
	}

	// Floor assignment: smallest available tier per agent.
	assigned := make([]domain.Representation, len(descs))
	total := 0
	for i, desc := range descs {
		assigned[i] = desc.Smallest()
		total += assigned[i].Tokens
	}
	if total > budgetTokens {
		budgetErr := &domain.BudgetError{
			Requested: budgetTokens,
			MinTokens: total,
		}
		tracer.RecordError(span, budgetErr)
		return Plan{}, budgetErr
	}

	// Upgrade passes: bump agents one tier at a time, in request order,
	// until no upgrade fits. One tier per pass keeps the allocation fair
	// instead of letting the first agent absorb the whole surplus.
	for upgraded := true; upgraded; {
		upgraded = false
		for i, desc := range descs {
			next, ok := nextTierUp(desc, assigned[i].Tier)
			if !ok {
				continue
			}
			delta := next.Tokens - assigned[i].Tokens
			if total+delta > budgetTokens {
				continue
			}
			assigned[i] = next
			total += delta
			upgraded = true
		}
	}

	plan := Plan{
		Selections:  make([]domain.TierSelection, len(descs)),
		TotalTokens: total,
		Remaining:   budgetTokens - total,
	}
	for i, desc := range descs {
		rep := assigned[i]
		plan.Selections[i] = domain.TierSelection{
			AgentID:          desc.ID,
			Tier:             rep.Tier,
			Format:           rep.Format,
			Content:          rep.Content,
			TokenCount:       rep.Tokens,
			ReductionPercent: reduction(rep.Tokens, desc.Full.Tokens),
		}
	}

	span.SetAttributes(tracer.IntAttr("total_tokens", total))
	tracer.SetOK(span)
	p.logger.Debug("budget plan computed",
		"agents", len(descs),
		"total_tokens", total,
		"remaining", plan.Remaining,
	)
	return plan, nil
}

// nextTierUp returns the next more detailed available representation
// after the given tier, skipping missing tiers.
func nextTierUp(desc *domain.AgentDescriptor, current domain.Tier) (domain.Representation, bool) {
	rank := current.DetailRank()
	if rank >= domain.TierFull.DetailRank() {
		return domain.Representation{}, false
	}
	if rank < domain.TierStandard.DetailRank() && desc.Standard != nil {
		return *desc.Standard, true
	}
	return desc.Full, true
}

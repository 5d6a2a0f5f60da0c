package usecase

import (
	"context"
	"log/slog"

	"promptdeck/internal/domain"
	"promptdeck/internal/infra/tracer"
)

// Resolver maps an (agentID, budgetTokens) pair to the most detailed
// representation that fits within the budget, never exceeding it.
// It is a pure read over the registry; concurrent callers need no
// coordination.
type Resolver struct {
	registry *Registry
	recorder domain.SelectionRecorder // optional
	logger   *slog.Logger
}

// NewResolver creates a Resolver. recorder may be nil to disable auditing.
func NewResolver(registry *Registry, recorder domain.SelectionRecorder, logger *slog.Logger) *Resolver {
	return &Resolver{
		registry: registry,
		recorder: recorder,
		logger:   logger,
	}
}

// Resolve selects the highest-detail representation of agentID that fits
// budgetTokens. Missing summary tiers are skipped in the ladder. Returns:
//   - ErrInvalidBudget for a negative budget,
//   - ErrAgentNotFound for an unknown agent,
//   - a *BudgetError (wrapping ErrInsufficientBudget) carrying the minimum
//     viable budget when no representation fits.
func (r *Resolver) Resolve(ctx context.Context, agentID string, budgetTokens int) (domain.TierSelection, error) {
	ctx, span := tracer.StartSpan(ctx, "resolver.resolve")
	defer span.End()
	span.SetAttributes(
		tracer.StringAttr("agent_id", agentID),
		tracer.IntAttr("budget_tokens", budgetTokens),
	)

	if budgetTokens < 0 {
		err := domain.NewDomainError("Resolver.Resolve", domain.ErrInvalidBudget, agentID)
		tracer.RecordError(span, err)
		return domain.TierSelection{}, err
	}

	desc, err := r.registry.Get(agentID)
	if err != nil {
		tracer.RecordError(span, err)
		return domain.TierSelection{}, err
	}

	for _, rep := range desc.TiersByDetail() {
		if rep.Tokens > budgetTokens {
			continue
		}
		sel := domain.TierSelection{
			AgentID:          agentID,
			Tier:             rep.Tier,
			Format:           rep.Format,
			Content:          rep.Content,
			TokenCount:       rep.Tokens,
			ReductionPercent: reduction(rep.Tokens, desc.Full.Tokens),
		}
		span.SetAttributes(
			tracer.StringAttr("tier", string(sel.Tier)),
			tracer.IntAttr("token_count", sel.TokenCount),
		)
		tracer.SetOK(span)
		r.record(ctx, budgetTokens, sel)
		return sel, nil
	}

	budgetErr := &domain.BudgetError{
		AgentID:   agentID,
		Requested: budgetTokens,
		MinTokens: desc.Smallest().Tokens,
	}
	tracer.RecordError(span, budgetErr)
	return domain.TierSelection{}, budgetErr
}

// reduction computes 1 - chosen/full as a fraction in [0, 1].
func reduction(chosen, full int) float64 {
	if full <= 0 || chosen >= full {
		return 0
	}
	return 1 - float64(chosen)/float64(full)
}

// record persists an audit entry. Audit failures never fail the
// resolution; they are logged and dropped.
func (r *Resolver) record(ctx context.Context, budget int, sel domain.TierSelection) {
	if r.recorder == nil {
		return
	}
	rec := domain.SelectionRecord{
		ID:              domain.NewRequestID(),
		AgentID:         sel.AgentID,
		RequestedBudget: budget,
		Tier:            sel.Tier,
		Tokens:          sel.TokenCount,
		Reduction:       sel.ReductionPercent,
	}
	if err := r.recorder.Record(ctx, rec); err != nil {
		r.logger.Warn("selection audit write failed",
			"agent_id", sel.AgentID,
			"error", err,
		)
	}
}

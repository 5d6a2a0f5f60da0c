package domain

import (
	"context"
	"time"
)

// Tier identifies one of the three fidelity levels of an agent document.
type Tier string

const (
	// TierMinimal is the smallest JSON summary (target ~100 tokens).
	TierMinimal Tier = "minimal"
	// TierStandard is the richer JSON summary (target ~250 tokens).
	TierStandard Tier = "standard"
	// TierFull is the authoritative prose document.
	TierFull Tier = "full"
)

// Valid returns true if the tier is a known value.
func (t Tier) Valid() bool {
	switch t {
	case TierMinimal, TierStandard, TierFull:
		return true
	default:
		return false
	}
}

// DetailRank orders tiers by fidelity: minimal < standard < full.
func (t Tier) DetailRank() int {
	switch t {
	case TierMinimal:
		return 1
	case TierStandard:
		return 2
	case TierFull:
		return 3
	default:
		return 0
	}
}

// Format is the payload encoding of a representation.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Representation is one loadable rendering of an agent document.
type Representation struct {
	Tier    Tier   `json:"tier"`
	Format  Format `json:"format"`
	Content string `json:"content"`
	Tokens  int    `json:"tokens"`
}

// AgentDescriptor holds the three representations of a single agent
// definition. Minimal and Standard are optional; Full is authoritative
// and always present. Descriptors are immutable after load; redefinition
// happens only through a full catalog reload.
type AgentDescriptor struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	Minimal  *Representation `json:"minimal,omitempty"`
	Standard *Representation `json:"standard,omitempty"`
	Full     Representation  `json:"full"`

	SourcePath string    `json:"source_path,omitempty"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// TiersByDetail returns the available representations ordered from most
// to least detailed. Missing summary tiers are skipped.
func (d *AgentDescriptor) TiersByDetail() []Representation {
	reps := make([]Representation, 0, 3)
	reps = append(reps, d.Full)
	if d.Standard != nil {
		reps = append(reps, *d.Standard)
	}
	if d.Minimal != nil {
		reps = append(reps, *d.Minimal)
	}
	return reps
}

// Smallest returns the least detailed available representation.
func (d *AgentDescriptor) Smallest() Representation {
	if d.Minimal != nil {
		return *d.Minimal
	}
	if d.Standard != nil {
		return *d.Standard
	}
	return d.Full
}

// Validate checks descriptor completeness and the token monotonicity
// invariant: tokens(minimal) <= tokens(standard) <= tokens(full).
func (d *AgentDescriptor) Validate() error {
	if d.ID == "" {
		return NewDomainError("Descriptor.Validate", ErrInvalidDescriptor, "missing id")
	}
	if d.Full.Tokens <= 0 {
		return NewDomainError("Descriptor.Validate", ErrInvalidDescriptor, "full document has no token count")
	}
	prev := 0
	full := d.Full
	for _, rep := range []*Representation{d.Minimal, d.Standard, &full} {
		if rep == nil {
			continue
		}
		if rep.Tokens < prev {
			return NewDomainError("Descriptor.Validate", ErrTierInvariant,
				"tier "+string(rep.Tier)+" smaller than a less detailed tier")
		}
		prev = rep.Tokens
	}
	return nil
}

// TierSelection is the outcome of a resolution request.
type TierSelection struct {
	AgentID          string  `json:"agent_id"`
	Tier             Tier    `json:"tier"`
	Format           Format  `json:"format"`
	Content          string  `json:"content"`
	TokenCount       int     `json:"token_count"`
	ReductionPercent float64 `json:"reduction_percent"`
}

// SelectionRecord is an audit entry for one resolution.
type SelectionRecord struct {
	ID              string    `json:"id"`
	AgentID         string    `json:"agent_id"`
	RequestedBudget int       `json:"requested_budget"`
	Tier            Tier      `json:"tier"`
	Tokens          int       `json:"tokens"`
	Reduction       float64   `json:"reduction"`
	CreatedAt       time.Time `json:"created_at"`
}

// TokenCounter estimates the context cost of a text payload.
type TokenCounter interface {
	CountText(text string) int
}

// CatalogProvider loads agent descriptors from storage.
type CatalogProvider interface {
	Load(ctx context.Context) ([]*AgentDescriptor, error)
}

// SelectionRecorder persists resolution audit records.
type SelectionRecorder interface {
	Record(ctx context.Context, rec SelectionRecord) error
	Recent(ctx context.Context, limit int) ([]SelectionRecord, error)
}

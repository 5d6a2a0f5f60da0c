package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrAgentNotFound      = fmt.Errorf("agent not found")
	ErrInsufficientBudget = fmt.Errorf("no representation fits the token budget")
	ErrInvalidBudget      = fmt.Errorf("token budget must be non-negative")
	ErrDuplicateAgent     = fmt.Errorf("agent already registered")
	ErrInvalidDescriptor  = fmt.Errorf("invalid agent descriptor")
	ErrTierInvariant      = fmt.Errorf("tier token counts not monotonic")
	ErrCatalogLoad        = fmt.Errorf("failed to load catalog")
	ErrConfigLoad         = fmt.Errorf("failed to load configuration")
	ErrAuditWrite         = fmt.Errorf("audit log write failed")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Resolver.Resolve")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// BudgetError reports a budget below the minimum viable tier. MinTokens is
// the token count of the smallest available representation, so callers can
// retry with a workable budget.
type BudgetError struct {
	AgentID   string
	Requested int
	MinTokens int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("agent %s: budget %d below minimum viable %d: %s",
		e.AgentID, e.Requested, e.MinTokens, ErrInsufficientBudget)
}

func (e *BudgetError) Unwrap() error { return ErrInsufficientBudget }

// ErrorCode is a machine-parseable error category for monitoring.
type ErrorCode string

const (
	CodeUnknown            ErrorCode = "UNKNOWN"
	CodeAgentNotFound      ErrorCode = "AGENT_NOT_FOUND"
	CodeInsufficientBudget ErrorCode = "INSUFFICIENT_BUDGET"
	CodeInvalidBudget      ErrorCode = "INVALID_BUDGET"
	CodeDuplicateAgent     ErrorCode = "AGENT_DUPLICATE"
	CodeInvalidDescriptor  ErrorCode = "INVALID_DESCRIPTOR"
	CodeTierInvariant      ErrorCode = "TIER_INVARIANT"
	CodeCatalogLoad        ErrorCode = "CATALOG_LOAD"
	CodeConfigLoad         ErrorCode = "CONFIG_LOAD"
	CodeAuditWrite         ErrorCode = "AUDIT_WRITE"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
var errorCodeMap = map[error]ErrorCode{
	ErrAgentNotFound:      CodeAgentNotFound,
	ErrInsufficientBudget: CodeInsufficientBudget,
	ErrInvalidBudget:      CodeInvalidBudget,
	ErrDuplicateAgent:     CodeDuplicateAgent,
	ErrInvalidDescriptor:  CodeInvalidDescriptor,
	ErrTierInvariant:      CodeTierInvariant,
	ErrCatalogLoad:        CodeCatalogLoad,
	ErrConfigLoad:         CodeConfigLoad,
	ErrAuditWrite:         CodeAuditWrite,
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps DomainError and walks the chain with errors.Is.
// Returns CodeUnknown if no matching sentinel is found.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	// Fast path: direct sentinel lookup.
	if code, ok := errorCodeMap[err]; ok {
		return code
	}

	var de *DomainError
	if errors.As(err, &de) {
		if code, ok := errorCodeMap[de.Err]; ok {
			return code
		}
	}

	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}

	return CodeUnknown
}

package usecase

import (
	"log/slog"
	"sort"
	"sync"

	"promptdeck/internal/domain"
)

// Registry is the descriptor table: an in-memory map of agent ID to
// immutable descriptor. Reads never block each other; reloads swap the
// whole table atomically under the write lock.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*domain.AgentDescriptor
	logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		agents: make(map[string]*domain.AgentDescriptor),
		logger: logger,
	}
}

// Register adds a descriptor. Returns ErrDuplicateAgent if already present.
func (r *Registry) Register(desc *domain.AgentDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[desc.ID]; exists {
		return domain.NewDomainError("Registry.Register", domain.ErrDuplicateAgent, desc.ID)
	}
	r.agents[desc.ID] = desc
	r.logger.Info("agent registered", "agent_id", desc.ID, "name", desc.Name)
	return nil
}

// Get returns the descriptor for the given ID, or ErrAgentNotFound.
func (r *Registry) Get(agentID string) (*domain.AgentDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.agents[agentID]
	if !ok {
		return nil, domain.NewDomainError("Registry.Get", domain.ErrAgentNotFound, agentID)
	}
	return desc, nil
}

// List returns all descriptors sorted by ID.
func (r *Registry) List() []*domain.AgentDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]*domain.AgentDescriptor, 0, len(r.agents))
	for _, d := range r.agents {
		descs = append(descs, d)
	}
	sort.Slice(descs, func(i, j int) bool {
		return descs[i].ID < descs[j].ID
	})
	return descs
}

// Remove unregisters an agent. Returns ErrAgentNotFound if not present.
func (r *Registry) Remove(agentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[agentID]; !ok {
		return domain.NewDomainError("Registry.Remove", domain.ErrAgentNotFound, agentID)
	}
	delete(r.agents, agentID)
	r.logger.Info("agent removed", "agent_id", agentID)
	return nil
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// ReplaceAll atomically swaps the whole table for the given descriptors.
// Used by catalog reloads. Validates every descriptor and rejects
// duplicates before touching the live table, so a bad reload leaves the
// previous table intact.
func (r *Registry) ReplaceAll(descs []*domain.AgentDescriptor) error {
	next := make(map[string]*domain.AgentDescriptor, len(descs))
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, exists := next[d.ID]; exists {
			return domain.NewDomainError("Registry.ReplaceAll", domain.ErrDuplicateAgent, d.ID)
		}
		next[d.ID] = d
	}

	r.mu.Lock()
	r.agents = next
	r.mu.Unlock()

	r.logger.Info("registry reloaded", "agents", len(next))
	return nil
}

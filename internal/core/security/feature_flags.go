// Package security provides feature gating backed by the subscription service.
package security

import (
	"context"
	"sync"

	"rxledger/internal/core/id"
)

// FeatureGate answers whether a subscription feature is enabled for a
// branch. The subscription service owns the plans; the core only asks.
// Abstraction allows different backends: in-memory, Redis, a billing API.
type FeatureGate interface {
	// Enabled checks if the feature is enabled for the branch.
	Enabled(ctx context.Context, branchID id.ID, feature string) bool
}

// Feature names (constants for type safety)
const (
	FeatureAdvancedReports = "advanced_reports"
	FeatureAIInsights      = "ai_insights"
)

// InMemoryGate is a simple in-memory feature gate.
// Suitable for single-node deployments and testing.
type InMemoryGate struct {
	mu       sync.RWMutex
	defaults map[string]bool
	branches map[id.ID]map[string]bool
}

// NewInMemoryGate creates an in-memory gate with the given defaults.
func NewInMemoryGate(defaults map[string]bool) *InMemoryGate {
	if defaults == nil {
		defaults = make(map[string]bool)
	}
	return &InMemoryGate{
		defaults: defaults,
		branches: make(map[id.ID]map[string]bool),
	}
}

// Enabled implements FeatureGate. Branch overrides win over defaults.
func (g *InMemoryGate) Enabled(ctx context.Context, branchID id.ID, feature string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if overrides, ok := g.branches[branchID]; ok {
		if v, ok := overrides[feature]; ok {
			return v
		}
	}
	return g.defaults[feature]
}

// SetBranchFeature sets a per-branch override (for testing/admin).
func (g *InMemoryGate) SetBranchFeature(branchID id.ID, feature string, enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.branches[branchID] == nil {
		g.branches[branchID] = make(map[string]bool)
	}
	g.branches[branchID][feature] = enabled
}

// Package cache provides caching infrastructure with PostgreSQL LISTEN/NOTIFY support.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rxledger/internal/core/id"
	"rxledger/internal/core/security"
	"rxledger/pkg/logger"
)

// featuresChannel is the NOTIFY channel fired by a trigger on the
// sys_branch_features table.
const featuresChannel = "branch_features_changed"

// SubscriptionGate implements security.FeatureGate on the
// sys_branch_features table. Rows are cached in memory and invalidated
// via PostgreSQL LISTEN/NOTIFY, so the per-request check never touches
// the database.
type SubscriptionGate struct {
	pool *pgxpool.Pool

	mu       sync.RWMutex
	defaults map[string]bool
	branches map[id.ID]map[string]bool

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewSubscriptionGate creates a gate with plan defaults. Branch rows
// loaded from the database override the defaults.
func NewSubscriptionGate(pool *pgxpool.Pool, defaults map[string]bool) *SubscriptionGate {
	if defaults == nil {
		defaults = make(map[string]bool)
	}
	return &SubscriptionGate{
		pool:     pool,
		defaults: defaults,
		branches: make(map[id.ID]map[string]bool),
	}
}

// Ensure interface compliance.
var _ security.FeatureGate = (*SubscriptionGate)(nil)

// Start loads the initial snapshot and begins listening for changes.
func (g *SubscriptionGate) Start(ctx context.Context) error {
	g.lifecycleMu.Lock()
	defer g.lifecycleMu.Unlock()
	if g.started {
		return nil
	}

	if err := g.reload(ctx); err != nil {
		return fmt.Errorf("load branch features: %w", err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.wg.Add(1)
	go g.listen(listenCtx)

	g.started = true
	return nil
}

// Stop terminates the listener.
func (g *SubscriptionGate) Stop() {
	g.lifecycleMu.Lock()
	defer g.lifecycleMu.Unlock()
	if !g.started {
		return
	}
	g.cancel()
	g.wg.Wait()
	g.started = false
}

// Enabled implements security.FeatureGate. Branch overrides win over
// plan defaults.
func (g *SubscriptionGate) Enabled(ctx context.Context, branchID id.ID, feature string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if overrides, ok := g.branches[branchID]; ok {
		if v, ok := overrides[feature]; ok {
			return v
		}
	}
	return g.defaults[feature]
}

// reload replaces the cached snapshot from the database.
func (g *SubscriptionGate) reload(ctx context.Context) error {
	rows, err := g.pool.Query(ctx, `
		SELECT branch_id, feature, enabled
		FROM sys_branch_features
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	branches := make(map[id.ID]map[string]bool)
	for rows.Next() {
		var (
			branchID id.ID
			feature  string
			enabled  bool
		)
		if err := rows.Scan(&branchID, &feature, &enabled); err != nil {
			return err
		}
		if branches[branchID] == nil {
			branches[branchID] = make(map[string]bool)
		}
		branches[branchID][feature] = enabled
	}
	if err := rows.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	g.branches = branches
	g.mu.Unlock()

	return nil
}

// listen holds a dedicated connection on the NOTIFY channel and reloads
// the snapshot on every notification. On connection loss it backs off
// and reconnects.
func (g *SubscriptionGate) listen(ctx context.Context) {
	defer g.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		if err := g.listenOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warn(ctx, "feature gate listener lost, reconnecting",
				"error", err,
			)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (g *SubscriptionGate) listenOnce(ctx context.Context) error {
	conn, err := g.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+featuresChannel); err != nil {
		return err
	}

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return err
		}
		if err := g.reload(ctx); err != nil {
			logger.Warn(ctx, "feature gate reload failed", "error", err)
		}
	}
}

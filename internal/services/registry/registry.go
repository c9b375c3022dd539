// Package registry holds the process-wide operational and business
// counters the report cycle snapshots. Recording operations are plain
// in-memory mutations, safe from any goroutine, and never block on I/O.
package registry

import (
	"maps"
	"sync"

	"github.com/dinerops/pizzametrics/internal/domain"
)

// Registry accumulates request counters, event counters, revenue, and the
// active-users gauge. Counters are running totals since construction and
// are never reset by the export path.
type Registry struct {
	mu                    sync.RWMutex
	requests              map[string]int64
	activeUsers           int64
	successfulLogins      int64
	failedLogins          int64
	pizzasSold            int64
	pizzaCreationFailures int64
	totalRevenue          float64
}

func New() *Registry {
	return &Registry{
		requests: make(map[string]int64),
	}
}

// RecordRequest increments the counter for the given request method,
// creating the label on first observation.
func (r *Registry) RecordRequest(method string) {
	r.mu.Lock()
	r.requests[method]++
	r.mu.Unlock()
}

// UserConnected raises the active-users gauge by one.
func (r *Registry) UserConnected() {
	r.mu.Lock()
	r.activeUsers++
	r.mu.Unlock()
}

// UserDisconnected lowers the active-users gauge by one. No floor is
// enforced; an unmatched call drives the gauge negative.
func (r *Registry) UserDisconnected() {
	r.mu.Lock()
	r.activeUsers--
	r.mu.Unlock()
}

func (r *Registry) LoginSucceeded() {
	r.mu.Lock()
	r.successfulLogins++
	r.mu.Unlock()
}

func (r *Registry) LoginFailed() {
	r.mu.Lock()
	r.failedLogins++
	r.mu.Unlock()
}

// OrderCompleted counts the order's items as sold pizzas and adds each
// item's price to total revenue. A nil order or one without items is a
// no-op: business flows must not fail through the metrics side channel.
func (r *Registry) OrderCompleted(order *domain.Order) {
	if order == nil || len(order.Items) == 0 {
		return
	}
	var revenue float64
	for _, it := range order.Items {
		revenue += it.Price
	}
	r.mu.Lock()
	r.pizzasSold += int64(len(order.Items))
	r.totalRevenue += revenue
	r.mu.Unlock()
}

func (r *Registry) PizzaCreationFailed() {
	r.mu.Lock()
	r.pizzaCreationFailures++
	r.mu.Unlock()
}

// Snapshot returns a consistent copy of every counter and the gauge
// without mutating them.
func (r *Registry) Snapshot() domain.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req := make(map[string]int64, len(r.requests))
	maps.Copy(req, r.requests)
	return domain.Snapshot{
		Requests:              req,
		ActiveUsers:           r.activeUsers,
		SuccessfulLogins:      r.successfulLogins,
		FailedLogins:          r.failedLogins,
		PizzasSold:            r.pizzasSold,
		PizzaCreationFailures: r.pizzaCreationFailures,
		TotalRevenue:          r.totalRevenue,
	}
}

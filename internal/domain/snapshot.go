package domain

// Snapshot is a consistent read of every counter and gauge the registry
// holds. Counter values are running totals since process start.
type Snapshot struct {
	Requests              map[string]int64
	ActiveUsers           int64
	SuccessfulLogins      int64
	FailedLogins          int64
	PizzasSold            int64
	PizzaCreationFailures int64
	TotalRevenue          float64
}

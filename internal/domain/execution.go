package domain

// ExecutionStatus describes how a signal resolved during replay.
type ExecutionStatus string

// ExecutionStatus constants.
const (
	StatusNotExecuted   ExecutionStatus = "NOT_EXECUTED"
	StatusTargetHit     ExecutionStatus = "TARGET_HIT"
	StatusStopLossHit   ExecutionStatus = "STOP_LOSS_HIT"
	StatusClosePrice    ExecutionStatus = "CLOSE_PRICE"
	StatusNoData        ExecutionStatus = "NO_DATA"
	StatusInvalidPrices ExecutionStatus = "INVALID_PRICES"
)

// ExecutionResult records the replay outcome for one signal.
// Produced exactly once per signal and never mutated afterwards.
type ExecutionResult struct {
	SignalID       string
	Status         ExecutionStatus
	ExecutionPrice float64 // 0 when the signal never opened
	ExecutionTime  int64   // Unix ms of the resolving bar, 0 when unresolved
	ProfitLossPct  float64 // directionally signed, as a percentage of entry
	IsProfitable   *bool   // nil when the signal never opened
}

// Resolved reports whether the signal actually traded to an outcome.
func (r *ExecutionResult) Resolved() bool {
	switch r.Status {
	case StatusTargetHit, StatusStopLossHit, StatusClosePrice:
		return true
	}
	return false
}

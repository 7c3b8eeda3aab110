package models

// UserStats is a report over the user's calculation history.
// It is derived on every request and never persisted.
type UserStats struct {
	TotalCalculations   int            `json:"total_calculations"`
	AverageOperands     float64        `json:"average_operands"`
	OperationsBreakdown map[string]int `json:"operations_breakdown"`

	// Nil when the user has no calculations at all.
	// LastCalculationDate is nil as well when no stored timestamp parses
	MostUsedOperation   *string `json:"most_used_operation"`
	LastCalculationDate *string `json:"last_calculation_date"`
}

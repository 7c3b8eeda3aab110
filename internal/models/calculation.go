package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Known calculation operation types
const (
	OperationAddition       = "addition"
	OperationSubtraction    = "subtraction"
	OperationMultiplication = "multiplication"
	OperationDivision       = "division"
)

type Calculation struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Type   string
	Inputs []decimal.Decimal
	Result decimal.Decimal

	// CreatedAt carries the raw store value. Historical rows may hold
	// timestamps in mixed or broken formats; such rows still count in
	// statistics, so parsing is deferred to the reader
	CreatedAt string
}

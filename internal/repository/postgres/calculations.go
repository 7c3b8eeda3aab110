package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dkovalev/calchub/internal/models"
)

type CalculationRepo struct {
	DB DBTX
}

// created_at travels as raw text: statistics must tolerate rows with
// broken timestamps, so parsing is left to the reader
const createCalculation = `-- name: CreateCalculation
INSERT INTO calculations (id, user_id, type, inputs, result)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, type, inputs, result, created_at
`

func (r *CalculationRepo) CreateCalculation(ctx context.Context, calc models.Calculation) (models.Calculation, error) {
	id := calc.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	inputs, err := json.Marshal(calc.Inputs)
	if err != nil {
		return models.Calculation{}, fmt.Errorf("marshal inputs error: %w", err)
	}

	rows, _ := r.DB.Query(ctx, createCalculation, id, calc.UserID, calc.Type, inputs, calc.Result)
	created, err := pgx.CollectOneRow(rows, rowToCalculation)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listUserCalculations = `-- name: ListUserCalculations
SELECT id, user_id, type, inputs, result, created_at
FROM calculations
WHERE user_id = $1
ORDER BY seq
`

func (r *CalculationRepo) ListUserCalculations(ctx context.Context, userID uuid.UUID) ([]models.Calculation, error) {
	rows, _ := r.DB.Query(ctx, listUserCalculations, userID)
	calcs, err := pgx.CollectRows(rows, rowToCalculation)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return calcs, nil
}

func rowToCalculation(row pgx.CollectableRow) (models.Calculation, error) {
	var c models.Calculation
	var inputs []byte

	err := row.Scan(&c.ID, &c.UserID, &c.Type, &inputs, &c.Result, &c.CreatedAt)
	if err != nil {
		return c, err
	}

	var operands []decimal.Decimal
	if err := json.Unmarshal(inputs, &operands); err != nil {
		return c, fmt.Errorf("unmarshal inputs error: %w", err)
	}
	c.Inputs = operands

	return c, nil
}

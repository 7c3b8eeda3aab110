package calculation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkovalev/calchub/internal/apperrors"
	"github.com/dkovalev/calchub/internal/models"
	"github.com/dkovalev/calchub/internal/repository"
)

type CalculationService struct {
	// Repository to access long term data
	calcRepo repository.CalculationRepo
}

func NewService(calcRepo repository.CalculationRepo) *CalculationService {
	return &CalculationService{
		calcRepo: calcRepo,
	}
}

// Calculate evaluates the operation over the operands, folding left,
// and persists the result for the user
func (s *CalculationService) Calculate(ctx context.Context, userID uuid.UUID, opType string, inputs []decimal.Decimal) (models.Calculation, error) {
	var calc models.Calculation

	result, err := evaluate(opType, inputs)
	if err != nil {
		return calc, err
	}

	calc, err = s.calcRepo.CreateCalculation(ctx, models.Calculation{
		UserID: userID,
		Type:   opType,
		Inputs: inputs,
		Result: result,
	})
	if err != nil {
		return calc, fmt.Errorf("can't save calculation. Err: %w", err)
	}

	return calc, nil
}

func (s *CalculationService) ListCalculations(ctx context.Context, userID uuid.UUID) ([]models.Calculation, error) {
	return s.calcRepo.ListUserCalculations(ctx, userID)
}

func evaluate(opType string, inputs []decimal.Decimal) (decimal.Decimal, error) {
	if len(inputs) < 2 {
		return decimal.Zero, apperrors.ErrNotEnoughOperands
	}

	acc := inputs[0]
	for _, operand := range inputs[1:] {
		switch opType {
		case models.OperationAddition:
			acc = acc.Add(operand)
		case models.OperationSubtraction:
			acc = acc.Sub(operand)
		case models.OperationMultiplication:
			acc = acc.Mul(operand)
		case models.OperationDivision:
			if operand.IsZero() {
				return decimal.Zero, apperrors.ErrDivisionByZero
			}
			acc = acc.Div(operand)
		default:
			return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrUnknownOperation, opType)
		}
	}

	return acc, nil
}

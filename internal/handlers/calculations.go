package handlers

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dkovalev/calchub/internal/apperrors"
	"github.com/dkovalev/calchub/internal/handlers/render"
	"github.com/dkovalev/calchub/internal/handlers/userctx"
	"github.com/dkovalev/calchub/internal/logger"
	"github.com/dkovalev/calchub/internal/models"
)

type calculationResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Inputs    []decimal.Decimal `json:"inputs"`
	Result    decimal.Decimal   `json:"result"`
	CreatedAt string            `json:"created_at"`
}

func calcToResponse(c models.Calculation) calculationResponse {
	return calculationResponse{
		ID:        c.ID.String(),
		Type:      c.Type,
		Inputs:    c.Inputs,
		Result:    c.Result,
		CreatedAt: c.CreatedAt,
	}
}

func handleCreateCalculation(calcService calculationService, l logger.Logger) http.Handler {
	type request struct {
		Type   string            `json:"type" validate:"required"`
		Inputs []decimal.Decimal `json:"inputs" validate:"required,min=2"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		calc, err := calcService.Calculate(r.Context(), user.ID, data.Type, data.Inputs)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUnknownOperation):
				render.ServiceError(w, "Unknown operation type", http.StatusUnprocessableEntity)
			case errors.Is(err, apperrors.ErrNotEnoughOperands):
				render.ServiceError(w, "At least two operands required", http.StatusUnprocessableEntity)
			case errors.Is(err, apperrors.ErrDivisionByZero):
				render.ServiceError(w, "Division by zero", http.StatusUnprocessableEntity)
			default:
				l.Error("Failed to create calculation", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, calcToResponse(calc))
	})
}

func handleListCalculations(calcService calculationService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		calcs, err := calcService.ListCalculations(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list calculations", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]calculationResponse, 0, len(calcs))
		for _, c := range calcs {
			response = append(response, calcToResponse(c))
		}

		render.JSON(w, response)
	})
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/maplehr/maplehr/internal/handler/dto"
	"github.com/maplehr/maplehr/internal/payroll"
)

// PayrollHandler handles HTTP requests for payroll calculations.
type PayrollHandler struct {
	logger *slog.Logger
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(logger *slog.Logger) *PayrollHandler {
	return &PayrollHandler{logger: logger}
}

// CalculateOvertime handles POST /api/payroll.
func (h *PayrollHandler) CalculateOvertime(w http.ResponseWriter, r *http.Request) {
	var req dto.PayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.HoursWorked < 0 || req.HourlyRate < 0 {
		writeError(w, http.StatusBadRequest, "NEGATIVE_VALUES", "Negative values not allowed")
		return
	}

	result := payroll.ComputeOvertime(req.HoursWorked, req.HourlyRate)

	writeJSON(w, http.StatusOK, result)
}

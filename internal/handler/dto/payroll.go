package dto

// PayrollRequest represents the request body for an overtime calculation.
type PayrollRequest struct {
	HoursWorked float64 `json:"hoursWorked"`
	HourlyRate  float64 `json:"hourlyRate"`
}

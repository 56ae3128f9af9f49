// Package payroll computes pay from worked hours and an hourly rate.
package payroll

// RegularLimit is the weekly hours threshold after which overtime applies.
// Alberta employment standard: 44 hours.
const RegularLimit = 44.0

// OvertimeMultiplier is applied to hours worked beyond RegularLimit.
const OvertimeMultiplier = 1.5

// Result holds the computed pay breakdown. All amounts are non-negative.
type Result struct {
	RegularPay  float64 `json:"regularPay"`
	OvertimePay float64 `json:"overtimePay"`
	TotalPay    float64 `json:"totalPay"`
}

// ComputeOvertime calculates regular and overtime pay for a week.
// Non-positive hours or rate yield an all-zero result rather than an error;
// range validation is the caller's concern. The overtime multiplier applies
// strictly to hours beyond RegularLimit, never at or below it.
func ComputeOvertime(hoursWorked, hourlyRate float64) Result {
	if hoursWorked <= 0 || hourlyRate <= 0 {
		return Result{}
	}

	regularHours := hoursWorked
	overtimeHours := 0.0
	if hoursWorked > RegularLimit {
		regularHours = RegularLimit
		overtimeHours = hoursWorked - RegularLimit
	}

	regularPay := regularHours * hourlyRate
	overtimePay := overtimeHours * hourlyRate * OvertimeMultiplier

	return Result{
		RegularPay:  regularPay,
		OvertimePay: overtimePay,
		TotalPay:    regularPay + overtimePay,
	}
}

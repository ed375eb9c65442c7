package payment

import (
	"time"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Scheduling constants. Amounts round to the cent at every step so the
// first payment and the balance always reconstruct the rent exactly.
var firstPaymentRate = decimal.RequireFromString("0.30")

const (
	firstPaymentDelay = 7 * 24 * time.Hour
	balanceLeadTime   = 30 * 24 * time.Hour
)

// ScheduleInput holds everything the schedule computation needs. Now is
// the injected clock value.
type ScheduleInput struct {
	TotalRent      decimal.Decimal
	DepositType    PaiementType // ARRHES or ACOMPTE
	ArrivalDate    time.Time
	OccupantCount  int
	TouristTaxRate decimal.Decimal // per occupant per night
	NightCount     int
	Now            time.Time
}

// ScheduleEntry is one computed line of the payment plan.
type ScheduleEntry struct {
	Type    PaiementType
	Label   string
	Amount  decimal.Decimal
	DueDate time.Time
}

// ComputeSchedule derives the ordered payment plan for a stay. Pure:
// same input, same output.
//
//   - first payment: 30% of the rent, tagged ARRHES or ACOMPTE per the
//     caller's legal choice, due 7 days from now; omitted when rent is 0.
//   - balance: the exact remainder, due 30 days before arrival, or on
//     arrival for last-minute bookings.
//   - tourist tax: rate x occupants x nights, due on arrival, only when
//     all three factors are positive.
func ComputeSchedule(in ScheduleInput) ([]ScheduleEntry, error) {
	if in.TotalRent.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Total rent cannot be negative")
	}
	if in.DepositType != PaiementArrhes && in.DepositType != PaiementAcompte {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Deposit type must be ARRHES or ACOMPTE")
	}
	if in.TouristTaxRate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tourist tax rate cannot be negative")
	}
	if in.OccupantCount < 0 || in.NightCount < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Occupant and night counts cannot be negative")
	}

	entries := make([]ScheduleEntry, 0, 3)

	firstAmount := decimal.Zero
	if in.TotalRent.IsPositive() {
		firstAmount = in.TotalRent.Mul(firstPaymentRate).Round(2)
		label := "Acompte 30%"
		if in.DepositType == PaiementArrhes {
			label = "Arrhes 30%"
		}
		entries = append(entries, ScheduleEntry{
			Type:    in.DepositType,
			Label:   label,
			Amount:  firstAmount,
			DueDate: in.Now.Add(firstPaymentDelay),
		})

		balanceDue := in.ArrivalDate.Add(-balanceLeadTime)
		if !balanceDue.After(in.Now) {
			// Last-minute booking: the balance is due on arrival.
			balanceDue = in.ArrivalDate
		}
		entries = append(entries, ScheduleEntry{
			Type:    PaiementSolde,
			Label:   "Solde du sejour",
			Amount:  in.TotalRent.Sub(firstAmount).Round(2),
			DueDate: balanceDue,
		})
	}

	if in.TouristTaxRate.IsPositive() && in.OccupantCount > 0 && in.NightCount > 0 {
		taxAmount := in.TouristTaxRate.
			Mul(decimal.NewFromInt(int64(in.OccupantCount))).
			Mul(decimal.NewFromInt(int64(in.NightCount))).
			Round(2)
		entries = append(entries, ScheduleEntry{
			Type:    PaiementTaxeSejour,
			Label:   "Taxe de sejour",
			Amount:  taxAmount,
			DueDate: in.ArrivalDate,
		})
	}

	return entries, nil
}

// ScheduleTotal sums the amounts of a computed plan.
func ScheduleTotal(entries []ScheduleEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

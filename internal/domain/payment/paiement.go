package payment

import (
	"fmt"
	"time"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaiementType tags what a schedule entry pays for.
type PaiementType string

const (
	PaiementArrhes     PaiementType = "ARRHES"
	PaiementAcompte    PaiementType = "ACOMPTE"
	PaiementSolde      PaiementType = "SOLDE"
	PaiementTaxeSejour PaiementType = "TAXE_SEJOUR"
)

// IsValid checks if the type is a known PaiementType
func (t PaiementType) IsValid() bool {
	switch t {
	case PaiementArrhes, PaiementAcompte, PaiementSolde, PaiementTaxeSejour:
		return true
	}
	return false
}

// String returns the string representation of PaiementType
func (t PaiementType) String() string {
	return string(t)
}

// PaiementStatus represents the collection state of a payment.
// PAYE and ANNULE are terminal; only DU and EN_RETARD are mutable.
type PaiementStatus string

const (
	PaiementDu       PaiementStatus = "DU"
	PaiementEnRetard PaiementStatus = "EN_RETARD"
	PaiementPaye     PaiementStatus = "PAYE"
	PaiementAnnule   PaiementStatus = "ANNULE"
)

// IsValid checks if the status is a known PaiementStatus
func (s PaiementStatus) IsValid() bool {
	switch s {
	case PaiementDu, PaiementEnRetard, PaiementPaye, PaiementAnnule:
		return true
	}
	return false
}

// String returns the string representation of PaiementStatus
func (s PaiementStatus) String() string {
	return string(s)
}

// IsMutable reports whether the payment may still be edited.
func (s PaiementStatus) IsMutable() bool {
	return s == PaiementDu || s == PaiementEnRetard
}

// Paiement is one entry of a dossier's payment schedule.
type Paiement struct {
	shared.BaseAggregateRoot
	DossierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      PaiementType    `gorm:"type:varchar(15);not null"`
	Label     string          `gorm:"type:varchar(200)"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate   time.Time       `gorm:"not null;index"`
	Statut    PaiementStatus  `gorm:"type:varchar(12);not null;index"`
	PaidAt    *time.Time
}

// NewPaiement creates a due payment for a dossier.
func NewPaiement(dossierID uuid.UUID, typ PaiementType, label string, amount decimal.Decimal, dueDate time.Time) (*Paiement, error) {
	if dossierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Dossier ID cannot be empty")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown payment type")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount cannot be negative")
	}

	return &Paiement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DossierID:         dossierID,
		Type:              typ,
		Label:             label,
		Amount:            amount.Round(2),
		DueDate:           dueDate,
		Statut:            PaiementDu,
	}, nil
}

// PaiementUpdate carries the optional fields of an update request.
type PaiementUpdate struct {
	Amount  *decimal.Decimal
	DueDate *time.Time
	Label   *string
}

// Apply mutates the payment. Only DU and EN_RETARD payments accept
// changes; moving the due date of an EN_RETARD payment to today or later
// resets it to DU in the same update.
func (p *Paiement) Apply(u PaiementUpdate, today time.Time) error {
	if !p.Statut.IsMutable() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot modify a payment in %s status", p.Statut))
	}

	if u.Amount != nil {
		if u.Amount.IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR", "Payment amount cannot be negative")
		}
		p.Amount = u.Amount.Round(2)
	}
	if u.Label != nil {
		p.Label = *u.Label
	}
	if u.DueDate != nil {
		p.DueDate = *u.DueDate
		if p.Statut == PaiementEnRetard && !u.DueDate.Before(today) {
			p.Statut = PaiementDu
		}
	}
	p.UpdatedAt = time.Now()

	return nil
}

// MarkOverdue flips a DU payment past its due date to EN_RETARD.
func (p *Paiement) MarkOverdue(now time.Time) error {
	if p.Statut != PaiementDu {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot flag a payment in %s status as overdue", p.Statut))
	}
	if !p.DueDate.Before(now) {
		return shared.NewDomainError("INVALID_STATE", "Payment is not past its due date")
	}

	p.Statut = PaiementEnRetard
	p.UpdatedAt = time.Now()

	return nil
}

// MarkPaid settles the payment. Terminal.
func (p *Paiement) MarkPaid(paidAt time.Time) error {
	if !p.Statut.IsMutable() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot settle a payment in %s status", p.Statut))
	}

	p.Statut = PaiementPaye
	p.PaidAt = &paidAt
	p.UpdatedAt = time.Now()

	return nil
}

// CancelAuto annuls an unsettled payment during cascade cancellation.
// Settled (PAYE) payments are never auto-reversed.
func (p *Paiement) CancelAuto() error {
	if !p.Statut.IsMutable() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel a payment in %s status", p.Statut))
	}

	p.Statut = PaiementAnnule
	p.UpdatedAt = time.Now()

	return nil
}

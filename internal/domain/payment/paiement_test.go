package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaiement(t *testing.T) *Paiement {
	t.Helper()
	p, err := NewPaiement(uuid.New(), PaiementSolde, "Solde du sejour", dec("700.00"),
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestNewPaiement(t *testing.T) {
	t.Run("creates DU payment with rounded amount", func(t *testing.T) {
		p, err := NewPaiement(uuid.New(), PaiementAcompte, "Acompte 30%", dec("299.999"), time.Now())
		require.NoError(t, err)
		assert.Equal(t, PaiementDu, p.Statut)
		assert.True(t, p.Amount.Equal(dec("300.00")))
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("rejects nil dossier", func(t *testing.T) {
		_, err := NewPaiement(uuid.Nil, PaiementSolde, "", dec("10"), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewPaiement(uuid.New(), PaiementType("LOYER"), "", dec("10"), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewPaiement(uuid.New(), PaiementSolde, "", dec("-10"), time.Now())
		assert.Error(t, err)
	})
}

func TestPaiement_Apply(t *testing.T) {
	today := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("updates amount label and due date", func(t *testing.T) {
		p := newTestPaiement(t)
		amount := dec("650.555")
		label := "Solde ajuste"
		due := today.AddDate(0, 1, 0)

		err := p.Apply(PaiementUpdate{Amount: &amount, Label: &label, DueDate: &due}, today)

		require.NoError(t, err)
		assert.True(t, p.Amount.Equal(dec("650.56")))
		assert.Equal(t, "Solde ajuste", p.Label)
		assert.Equal(t, due, p.DueDate)
	})

	t.Run("future due date resets EN_RETARD to DU", func(t *testing.T) {
		p := newTestPaiement(t)
		p.Statut = PaiementEnRetard
		due := today.AddDate(0, 0, 15)

		require.NoError(t, p.Apply(PaiementUpdate{DueDate: &due}, today))
		assert.Equal(t, PaiementDu, p.Statut)
	})

	t.Run("due date equal to today also resets", func(t *testing.T) {
		p := newTestPaiement(t)
		p.Statut = PaiementEnRetard
		due := today

		require.NoError(t, p.Apply(PaiementUpdate{DueDate: &due}, today))
		assert.Equal(t, PaiementDu, p.Statut)
	})

	t.Run("past due date keeps EN_RETARD", func(t *testing.T) {
		p := newTestPaiement(t)
		p.Statut = PaiementEnRetard
		due := today.AddDate(0, 0, -5)

		require.NoError(t, p.Apply(PaiementUpdate{DueDate: &due}, today))
		assert.Equal(t, PaiementEnRetard, p.Statut)
	})

	t.Run("rejects mutation of PAYE", func(t *testing.T) {
		p := newTestPaiement(t)
		require.NoError(t, p.MarkPaid(today))
		label := "late edit"

		err := p.Apply(PaiementUpdate{Label: &label}, today)
		assert.Error(t, err)
	})

	t.Run("rejects mutation of ANNULE", func(t *testing.T) {
		p := newTestPaiement(t)
		require.NoError(t, p.CancelAuto())
		amount := dec("1.00")

		err := p.Apply(PaiementUpdate{Amount: &amount}, today)
		assert.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		p := newTestPaiement(t)
		amount := dec("-5.00")

		err := p.Apply(PaiementUpdate{Amount: &amount}, today)
		assert.Error(t, err)
	})
}

func TestPaiement_MarkOverdue(t *testing.T) {
	t.Run("flips DU past due to EN_RETARD", func(t *testing.T) {
		p := newTestPaiement(t)
		now := p.DueDate.AddDate(0, 0, 1)

		require.NoError(t, p.MarkOverdue(now))
		assert.Equal(t, PaiementEnRetard, p.Statut)
	})

	t.Run("not yet due", func(t *testing.T) {
		p := newTestPaiement(t)
		now := p.DueDate.AddDate(0, 0, -1)

		assert.Error(t, p.MarkOverdue(now))
		assert.Equal(t, PaiementDu, p.Statut)
	})

	t.Run("due today is not overdue", func(t *testing.T) {
		p := newTestPaiement(t)
		assert.Error(t, p.MarkOverdue(p.DueDate))
	})

	t.Run("only DU can become overdue", func(t *testing.T) {
		p := newTestPaiement(t)
		p.Statut = PaiementEnRetard
		assert.Error(t, p.MarkOverdue(p.DueDate.AddDate(0, 0, 1)))
	})
}

func TestPaiement_MarkPaid(t *testing.T) {
	paidAt := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

	t.Run("settles DU", func(t *testing.T) {
		p := newTestPaiement(t)
		require.NoError(t, p.MarkPaid(paidAt))
		assert.Equal(t, PaiementPaye, p.Statut)
		require.NotNil(t, p.PaidAt)
		assert.Equal(t, paidAt, *p.PaidAt)
	})

	t.Run("settles EN_RETARD", func(t *testing.T) {
		p := newTestPaiement(t)
		p.Statut = PaiementEnRetard
		require.NoError(t, p.MarkPaid(paidAt))
		assert.Equal(t, PaiementPaye, p.Statut)
	})

	t.Run("terminal: cannot settle twice", func(t *testing.T) {
		p := newTestPaiement(t)
		require.NoError(t, p.MarkPaid(paidAt))
		assert.Error(t, p.MarkPaid(paidAt))
	})
}

func TestPaiement_CancelAuto(t *testing.T) {
	t.Run("cancels DU and EN_RETARD", func(t *testing.T) {
		for _, statut := range []PaiementStatus{PaiementDu, PaiementEnRetard} {
			p := newTestPaiement(t)
			p.Statut = statut
			require.NoError(t, p.CancelAuto())
			assert.Equal(t, PaiementAnnule, p.Statut)
		}
	})

	t.Run("never reverses settled money", func(t *testing.T) {
		p := newTestPaiement(t)
		require.NoError(t, p.MarkPaid(time.Now()))
		assert.Error(t, p.CancelAuto())
		assert.Equal(t, PaiementPaye, p.Statut)
	})
}

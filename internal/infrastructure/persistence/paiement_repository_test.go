package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/gites/backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPaiementRepository_FindByDossier(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormPaiementRepository(db)

	d := seedDossier(t, db)
	later := seedPaiement(t, db, d.ID, payment.PaiementDu, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))
	earlier := seedPaiement(t, db, d.ID, payment.PaiementDu, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	seedPaiement(t, db, seedDossier(t, db).ID, payment.PaiementDu, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	found, err := repo.FindByDossier(ctx, d.ID)

	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, earlier.ID, found[0].ID)
	assert.Equal(t, later.ID, found[1].ID)
}

func TestGormPaiementRepository_FindOverdue(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormPaiementRepository(db)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	d1 := seedDossier(t, db)
	d2 := seedDossier(t, db)

	past := seedPaiement(t, db, d1.ID, payment.PaiementDu, now.AddDate(0, 0, -3))
	seedPaiement(t, db, d1.ID, payment.PaiementDu, now) // due today, not overdue
	seedPaiement(t, db, d1.ID, payment.PaiementPaye, now.AddDate(0, 0, -3))
	otherDossier := seedPaiement(t, db, d2.ID, payment.PaiementDu, now.AddDate(0, 0, -1))

	t.Run("all dossiers", func(t *testing.T) {
		found, err := repo.FindOverdue(ctx, now, uuid.Nil)
		require.NoError(t, err)
		require.Len(t, found, 2)
	})

	t.Run("single dossier", func(t *testing.T) {
		found, err := repo.FindOverdue(ctx, now, d1.ID)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, past.ID, found[0].ID)
	})

	t.Run("other dossier", func(t *testing.T) {
		found, err := repo.FindOverdue(ctx, now, d2.ID)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, otherDossier.ID, found[0].ID)
	})
}

func TestGormPaiementRepository_FindCancellable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormPaiementRepository(db)

	d := seedDossier(t, db)
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	seedPaiement(t, db, d.ID, payment.PaiementDu, due)
	seedPaiement(t, db, d.ID, payment.PaiementEnRetard, due)
	seedPaiement(t, db, d.ID, payment.PaiementPaye, due)
	seedPaiement(t, db, d.ID, payment.PaiementAnnule, due)

	found, err := repo.FindCancellable(ctx, d.ID)

	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, p := range found {
		assert.Contains(t, []payment.PaiementStatus{payment.PaiementDu, payment.PaiementEnRetard}, p.Statut)
	}
}

func TestGormPaiementRepository_SaveAll(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormPaiementRepository(db)

	d := seedDossier(t, db)
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	var batch []*payment.Paiement
	for _, typ := range []payment.PaiementType{payment.PaiementAcompte, payment.PaiementSolde, payment.PaiementTaxeSejour} {
		p, err := payment.NewPaiement(d.ID, typ, string(typ), decimal.RequireFromString("50.00"), due)
		require.NoError(t, err)
		batch = append(batch, p)
	}

	require.NoError(t, repo.SaveAll(ctx, batch))

	count, err := repo.CountByDossier(ctx, d.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// Decimal round trip
	stored, err := repo.FindByID(ctx, batch[0].ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("50.00")))
}

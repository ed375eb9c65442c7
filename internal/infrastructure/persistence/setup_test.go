package persistence

import (
	"testing"
	"time"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/inspection"
	"github.com/gites/backend/internal/domain/payment"
	"github.com/gites/backend/internal/domain/task"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&dossier.Reservation{},
		&dossier.Dossier{},
		&payment.Paiement{},
		&task.Tache{},
		&inspection.Edl{},
		&inspection.EdlItem{},
		&inspection.Incident{},
		&audit.Entry{},
	))

	return db
}

func seedReservation(t *testing.T, db *gorm.DB, logementID uuid.UUID, checkIn, checkOut time.Time, statut dossier.ReservationStatus) *dossier.Reservation {
	t.Helper()
	r, err := dossier.NewConfirmed(logementID, checkIn, checkOut,
		"Marie Dupont", "", "", decimal.RequireFromString("840.00"), 2)
	require.NoError(t, err)
	r.ClearDomainEvents()
	r.Statut = statut
	require.NoError(t, db.Save(r).Error)
	return r
}

func seedDossier(t *testing.T, db *gorm.DB) *dossier.Dossier {
	t.Helper()
	checkIn := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	r := seedReservation(t, db, uuid.New(), checkIn, checkIn.AddDate(0, 0, 7), dossier.ReservationConfirmee)
	d, err := dossier.NewDossier(r.ID, r.LogementID, dossier.DepositAcompte)
	require.NoError(t, err)
	d.ClearDomainEvents()
	require.NoError(t, db.Save(d).Error)
	return d
}

func seedPaiement(t *testing.T, db *gorm.DB, dossierID uuid.UUID, statut payment.PaiementStatus, due time.Time) *payment.Paiement {
	t.Helper()
	p, err := payment.NewPaiement(dossierID, payment.PaiementSolde, "Solde",
		decimal.RequireFromString("100.00"), due)
	require.NoError(t, err)
	p.Statut = statut
	require.NoError(t, db.Save(p).Error)
	return p
}

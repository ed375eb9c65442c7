package persistence

import (
	"context"
	"database/sql"

	appdossier "github.com/gites/backend/internal/application/dossier"
	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/payment"
	"github.com/gites/backend/internal/domain/task"
	"gorm.io/gorm"
)

// GormDossierTransactionScope implements the application transaction
// scope on top of a GORM transaction. All repositories handed to the
// callback share one transaction: the cancellation cascade, a payment
// schedule with its audit entry, or a booking with its overlap check
// commit together or not at all.
type GormDossierTransactionScope struct {
	db *gorm.DB
}

// NewGormDossierTransactionScope creates a new GormDossierTransactionScope
func NewGormDossierTransactionScope(db *gorm.DB) *GormDossierTransactionScope {
	return &GormDossierTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormDossierTransactionScope) Execute(ctx context.Context, fn func(repos appdossier.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// ExecuteSerializable runs the function within a serializable database
// transaction, so a guard read cannot race a concurrent writer.
func (s *GormDossierTransactionScope) ExecuteSerializable(ctx context.Context, fn func(repos appdossier.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// gormTransactionalRepositories provides repositories scoped to a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) DossierRepo() dossier.DossierRepository {
	return NewGormDossierRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReservationRepo() dossier.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaiementRepo() payment.PaiementRepository {
	return NewGormPaiementRepository(r.tx)
}

func (r *gormTransactionalRepositories) TacheRepo() task.TacheRepository {
	return NewGormTacheRepository(r.tx)
}

func (r *gormTransactionalRepositories) AuditRepo() audit.EntryRepository {
	return NewGormAuditRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ appdossier.TransactionScope = (*GormDossierTransactionScope)(nil)
var _ appdossier.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

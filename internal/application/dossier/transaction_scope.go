package dossier

import (
	"context"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/payment"
	"github.com/gites/backend/internal/domain/task"
)

// TransactionScope provides transactional access to the repositories the
// multi-step mutations touch. Everything executed within one scope is
// committed or rolled back atomically: a cancellation either annuls the
// dossier, its reservation, its unsettled payments and its open tasks
// together, or changes nothing, and a payment schedule lands with its
// audit entry or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
	// ExecuteSerializable is Execute under serializable isolation, for
	// check-then-write sequences whose guard must not race with a
	// concurrent writer.
	ExecuteSerializable(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the cascade repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// DossierRepo returns the dossier repository scoped to the current transaction
	DossierRepo() dossier.DossierRepository
	// ReservationRepo returns the reservation repository scoped to the current transaction
	ReservationRepo() dossier.ReservationRepository
	// PaiementRepo returns the payment repository scoped to the current transaction
	PaiementRepo() payment.PaiementRepository
	// TacheRepo returns the task repository scoped to the current transaction
	TacheRepo() task.TacheRepository
	// AuditRepo returns the audit repository scoped to the current transaction
	AuditRepo() audit.EntryRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests backed by in-memory repositories.
type NoOpTransactionScope struct {
	dossierRepo     dossier.DossierRepository
	reservationRepo dossier.ReservationRepository
	paiementRepo    payment.PaiementRepository
	tacheRepo       task.TacheRepository
	auditRepo       audit.EntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	dossierRepo dossier.DossierRepository,
	reservationRepo dossier.ReservationRepository,
	paiementRepo payment.PaiementRepository,
	tacheRepo task.TacheRepository,
	auditRepo audit.EntryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		dossierRepo:     dossierRepo,
		reservationRepo: reservationRepo,
		paiementRepo:    paiementRepo,
		tacheRepo:       tacheRepo,
		auditRepo:       auditRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ExecuteSerializable runs the function without a real transaction.
func (s *NoOpTransactionScope) ExecuteSerializable(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DossierRepo returns the dossier repository.
func (s *NoOpTransactionScope) DossierRepo() dossier.DossierRepository {
	return s.dossierRepo
}

// ReservationRepo returns the reservation repository.
func (s *NoOpTransactionScope) ReservationRepo() dossier.ReservationRepository {
	return s.reservationRepo
}

// PaiementRepo returns the payment repository.
func (s *NoOpTransactionScope) PaiementRepo() payment.PaiementRepository {
	return s.paiementRepo
}

// TacheRepo returns the task repository.
func (s *NoOpTransactionScope) TacheRepo() task.TacheRepository {
	return s.tacheRepo
}

// AuditRepo returns the audit repository.
func (s *NoOpTransactionScope) AuditRepo() audit.EntryRepository {
	return s.auditRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

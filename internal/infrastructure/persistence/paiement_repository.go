package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gites/backend/internal/domain/payment"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaiementRepository implements PaiementRepository using GORM
type GormPaiementRepository struct {
	db *gorm.DB
}

// NewGormPaiementRepository creates a new GormPaiementRepository
func NewGormPaiementRepository(db *gorm.DB) *GormPaiementRepository {
	return &GormPaiementRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaiementRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Paiement, error) {
	var p payment.Paiement
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByDossier finds all payments of a dossier ordered by due date
func (r *GormPaiementRepository) FindByDossier(ctx context.Context, dossierID uuid.UUID) ([]payment.Paiement, error) {
	var paiements []payment.Paiement
	if err := r.db.WithContext(ctx).
		Where("dossier_id = ?", dossierID).
		Order("due_date asc, created_at asc").
		Find(&paiements).Error; err != nil {
		return nil, err
	}
	return paiements, nil
}

// FindOverdue finds DU payments due strictly before now, optionally
// restricted to one dossier (uuid.Nil = all dossiers)
func (r *GormPaiementRepository) FindOverdue(ctx context.Context, now time.Time, dossierID uuid.UUID) ([]payment.Paiement, error) {
	var paiements []payment.Paiement
	query := r.db.WithContext(ctx).
		Where("statut = ? AND due_date < ?", payment.PaiementDu, now)
	if dossierID != uuid.Nil {
		query = query.Where("dossier_id = ?", dossierID)
	}

	if err := query.Order("due_date asc").Find(&paiements).Error; err != nil {
		return nil, err
	}
	return paiements, nil
}

// FindCancellable finds DU and EN_RETARD payments of a dossier
func (r *GormPaiementRepository) FindCancellable(ctx context.Context, dossierID uuid.UUID) ([]payment.Paiement, error) {
	var paiements []payment.Paiement
	if err := r.db.WithContext(ctx).
		Where("dossier_id = ? AND statut IN ?", dossierID,
			[]payment.PaiementStatus{payment.PaiementDu, payment.PaiementEnRetard}).
		Order("due_date asc").
		Find(&paiements).Error; err != nil {
		return nil, err
	}
	return paiements, nil
}

// CountByDossier counts the payments attached to a dossier
func (r *GormPaiementRepository) CountByDossier(ctx context.Context, dossierID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&payment.Paiement{}).
		Where("dossier_id = ?", dossierID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payment
func (r *GormPaiementRepository) Save(ctx context.Context, p *payment.Paiement) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveAll persists a batch of payments in one transaction
func (r *GormPaiementRepository) SaveAll(ctx context.Context, ps []*payment.Paiement) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range ps {
			if err := tx.Save(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormPaiementRepository implements PaiementRepository
var _ payment.PaiementRepository = (*GormPaiementRepository)(nil)

// Package apptest provides in-memory repository implementations backing
// the application service tests. They honor the same contracts as the
// gorm repositories, including NOT_FOUND errors and the half-open
// overlap check, but keep everything in process.
package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/gites/backend/internal/domain/audit"
	"github.com/gites/backend/internal/domain/dossier"
	"github.com/gites/backend/internal/domain/inspection"
	"github.com/gites/backend/internal/domain/payment"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/gites/backend/internal/domain/task"
	"github.com/google/uuid"
)

// ReservationRepo is an in-memory dossier.ReservationRepository.
type ReservationRepo struct {
	items map[uuid.UUID]dossier.Reservation
}

// NewReservationRepo creates an empty ReservationRepo.
func NewReservationRepo() *ReservationRepo {
	return &ReservationRepo{items: make(map[uuid.UUID]dossier.Reservation)}
}

func (r *ReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*dossier.Reservation, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *ReservationRepo) FindAll(_ context.Context, _ shared.Filter) ([]dossier.Reservation, error) {
	out := make([]dossier.Reservation, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *ReservationRepo) FindExpiredOptions(_ context.Context, now time.Time) ([]dossier.Reservation, error) {
	var out []dossier.Reservation
	for _, item := range r.items {
		if item.Statut == dossier.ReservationOptionActive &&
			item.ExpirationAt != nil && !item.ExpirationAt.After(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *ReservationRepo) HasOverlap(_ context.Context, logementID uuid.UUID, checkIn, checkOut time.Time, excludeID uuid.UUID) (bool, error) {
	for _, item := range r.items {
		if item.ID == excludeID || item.LogementID != logementID || !item.Statut.IsActive() {
			continue
		}
		if checkIn.Before(item.CheckOut) && item.CheckIn.Before(checkOut) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReservationRepo) Save(_ context.Context, res *dossier.Reservation) error {
	r.items[res.ID] = *res
	return nil
}

// DossierRepo is an in-memory dossier.DossierRepository.
type DossierRepo struct {
	items map[uuid.UUID]dossier.Dossier
}

// NewDossierRepo creates an empty DossierRepo.
func NewDossierRepo() *DossierRepo {
	return &DossierRepo{items: make(map[uuid.UUID]dossier.Dossier)}
}

func (r *DossierRepo) FindByID(_ context.Context, id uuid.UUID) (*dossier.Dossier, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *DossierRepo) FindByReservation(_ context.Context, reservationID uuid.UUID) (*dossier.Dossier, error) {
	for _, item := range r.items {
		if item.ReservationID == reservationID {
			d := item
			return &d, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *DossierRepo) FindAll(_ context.Context, _ shared.Filter) ([]dossier.Dossier, error) {
	out := make([]dossier.Dossier, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *DossierRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *DossierRepo) Save(_ context.Context, d *dossier.Dossier) error {
	r.items[d.ID] = *d
	return nil
}

func (r *DossierRepo) SaveWithLock(_ context.Context, d *dossier.Dossier) error {
	stored, ok := r.items[d.ID]
	if ok && stored.Version != d.Version {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "Dossier was modified concurrently")
	}
	d.IncrementVersion()
	r.items[d.ID] = *d
	return nil
}

func (r *DossierRepo) ExistsForReservation(_ context.Context, reservationID uuid.UUID) (bool, error) {
	for _, item := range r.items {
		if item.ReservationID == reservationID {
			return true, nil
		}
	}
	return false, nil
}

// PaiementRepo is an in-memory payment.PaiementRepository.
type PaiementRepo struct {
	items map[uuid.UUID]payment.Paiement
}

// NewPaiementRepo creates an empty PaiementRepo.
func NewPaiementRepo() *PaiementRepo {
	return &PaiementRepo{items: make(map[uuid.UUID]payment.Paiement)}
}

func (r *PaiementRepo) FindByID(_ context.Context, id uuid.UUID) (*payment.Paiement, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *PaiementRepo) FindByDossier(_ context.Context, dossierID uuid.UUID) ([]payment.Paiement, error) {
	var out []payment.Paiement
	for _, item := range r.items {
		if item.DossierID == dossierID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *PaiementRepo) FindOverdue(_ context.Context, now time.Time, dossierID uuid.UUID) ([]payment.Paiement, error) {
	var out []payment.Paiement
	for _, item := range r.items {
		if dossierID != uuid.Nil && item.DossierID != dossierID {
			continue
		}
		if item.Statut == payment.PaiementDu && item.DueDate.Before(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PaiementRepo) FindCancellable(_ context.Context, dossierID uuid.UUID) ([]payment.Paiement, error) {
	var out []payment.Paiement
	for _, item := range r.items {
		if item.DossierID != dossierID {
			continue
		}
		if item.Statut == payment.PaiementDu || item.Statut == payment.PaiementEnRetard {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PaiementRepo) CountByDossier(_ context.Context, dossierID uuid.UUID) (int64, error) {
	var count int64
	for _, item := range r.items {
		if item.DossierID == dossierID {
			count++
		}
	}
	return count, nil
}

func (r *PaiementRepo) Save(_ context.Context, p *payment.Paiement) error {
	r.items[p.ID] = *p
	return nil
}

func (r *PaiementRepo) SaveAll(ctx context.Context, ps []*payment.Paiement) error {
	for _, p := range ps {
		if err := r.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// TacheRepo is an in-memory task.TacheRepository.
type TacheRepo struct {
	items map[uuid.UUID]task.Tache
}

// NewTacheRepo creates an empty TacheRepo.
func NewTacheRepo() *TacheRepo {
	return &TacheRepo{items: make(map[uuid.UUID]task.Tache)}
}

func (r *TacheRepo) FindByID(_ context.Context, id uuid.UUID) (*task.Tache, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *TacheRepo) FindByDossier(_ context.Context, dossierID uuid.UUID) ([]task.Tache, error) {
	var out []task.Tache
	for _, item := range r.items {
		if item.DossierID != nil && *item.DossierID == dossierID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *TacheRepo) FindOpenByDossier(_ context.Context, dossierID uuid.UUID) ([]task.Tache, error) {
	var out []task.Tache
	for _, item := range r.items {
		if item.DossierID != nil && *item.DossierID == dossierID && item.Statut.IsOpen() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *TacheRepo) FindAll(_ context.Context, _ shared.Filter) ([]task.Tache, error) {
	out := make([]task.Tache, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *TacheRepo) Save(_ context.Context, t *task.Tache) error {
	r.items[t.ID] = *t
	return nil
}

// EdlRepo is an in-memory inspection.EdlRepository.
type EdlRepo struct {
	items map[uuid.UUID]inspection.Edl
}

// NewEdlRepo creates an empty EdlRepo.
func NewEdlRepo() *EdlRepo {
	return &EdlRepo{items: make(map[uuid.UUID]inspection.Edl)}
}

func (r *EdlRepo) FindByID(_ context.Context, id uuid.UUID) (*inspection.Edl, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *EdlRepo) FindByDossier(_ context.Context, dossierID uuid.UUID) ([]inspection.Edl, error) {
	var out []inspection.Edl
	for _, item := range r.items {
		if item.DossierID == dossierID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *EdlRepo) FindByDossierAndType(_ context.Context, dossierID uuid.UUID, typ inspection.EdlType) (*inspection.Edl, error) {
	for _, item := range r.items {
		if item.DossierID == dossierID && item.Type == typ {
			e := item
			return &e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *EdlRepo) Save(_ context.Context, e *inspection.Edl) error {
	r.items[e.ID] = *e
	return nil
}

// IncidentRepo is an in-memory inspection.IncidentRepository.
type IncidentRepo struct {
	items map[uuid.UUID]inspection.Incident
}

// NewIncidentRepo creates an empty IncidentRepo.
func NewIncidentRepo() *IncidentRepo {
	return &IncidentRepo{items: make(map[uuid.UUID]inspection.Incident)}
}

func (r *IncidentRepo) FindByID(_ context.Context, id uuid.UUID) (*inspection.Incident, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *IncidentRepo) FindByEdl(_ context.Context, edlID uuid.UUID) ([]inspection.Incident, error) {
	var out []inspection.Incident
	for _, item := range r.items {
		if item.EdlID == edlID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *IncidentRepo) Save(_ context.Context, i *inspection.Incident) error {
	r.items[i.ID] = *i
	return nil
}

func (r *IncidentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// AuditRepo is an in-memory audit.EntryRepository. Entries stays
// append-ordered so tests can assert on what was recorded.
type AuditRepo struct {
	Entries []audit.Entry
}

// NewAuditRepo creates an empty AuditRepo.
func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

func (r *AuditRepo) Append(_ context.Context, e *audit.Entry) error {
	r.Entries = append(r.Entries, *e)
	return nil
}

func (r *AuditRepo) AppendAll(ctx context.Context, entries []*audit.Entry) error {
	for _, e := range entries {
		if err := r.Append(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *AuditRepo) FindByEntity(_ context.Context, entityType string, entityID uuid.UUID) ([]audit.Entry, error) {
	var out []audit.Entry
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].EntityType == entityType && r.Entries[i].EntityID == entityID {
			out = append(out, r.Entries[i])
		}
	}
	return out, nil
}

func (r *AuditRepo) FindAll(_ context.Context, _ shared.Filter) ([]audit.Entry, error) {
	out := make([]audit.Entry, len(r.Entries))
	copy(out, r.Entries)
	return out, nil
}

// LastAction returns the action of the most recent entry, or "".
func (r *AuditRepo) LastAction() string {
	if len(r.Entries) == 0 {
		return ""
	}
	return r.Entries[len(r.Entries)-1].Action
}

// RecordingDispatcher captures dispatched notifications.
type RecordingDispatcher struct {
	Sent []shared.Notification
}

// Dispatch records the notification.
func (d *RecordingDispatcher) Dispatch(_ context.Context, n shared.Notification) {
	d.Sent = append(d.Sent, n)
}

var (
	_ dossier.ReservationRepository  = (*ReservationRepo)(nil)
	_ dossier.DossierRepository      = (*DossierRepo)(nil)
	_ payment.PaiementRepository     = (*PaiementRepo)(nil)
	_ task.TacheRepository           = (*TacheRepo)(nil)
	_ inspection.EdlRepository       = (*EdlRepo)(nil)
	_ inspection.IncidentRepository  = (*IncidentRepo)(nil)
	_ audit.EntryRepository          = (*AuditRepo)(nil)
	_ shared.NotificationDispatcher  = (*RecordingDispatcher)(nil)
)

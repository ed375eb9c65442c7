package inspection

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EdlType distinguishes the move-in and move-out inspections.
type EdlType string

const (
	EdlArrivee EdlType = "ARRIVEE"
	EdlDepart  EdlType = "DEPART"
)

// IsValid checks if the type is a known EdlType
func (t EdlType) IsValid() bool {
	switch t {
	case EdlArrivee, EdlDepart:
		return true
	}
	return false
}

// String returns the string representation of EdlType
func (t EdlType) String() string {
	return string(t)
}

// EdlStatus represents the inspection workflow state.
type EdlStatus string

const (
	EdlNonCommence     EdlStatus = "NON_COMMENCE"
	EdlEnCours         EdlStatus = "EN_COURS"
	EdlTermineOK       EdlStatus = "TERMINE_OK"
	EdlTermineIncident EdlStatus = "TERMINE_INCIDENT"
)

// IsValid checks if the status is a known EdlStatus
func (s EdlStatus) IsValid() bool {
	switch s {
	case EdlNonCommence, EdlEnCours, EdlTermineOK, EdlTermineIncident:
		return true
	}
	return false
}

// String returns the string representation of EdlStatus
func (s EdlStatus) String() string {
	return string(s)
}

// IsFinalized reports whether the inspection has been completed.
func (s EdlStatus) IsFinalized() bool {
	return s == EdlTermineOK || s == EdlTermineIncident
}

// ItemOutcome is the per-item inspection result. The empty value means
// the item has not been assessed yet.
type ItemOutcome string

const (
	OutcomeNone     ItemOutcome = ""
	OutcomeOK       ItemOutcome = "OK"
	OutcomeAnomalie ItemOutcome = "ANOMALIE"
)

// IsSet reports whether the item has been assessed.
func (o ItemOutcome) IsSet() bool {
	return o == OutcomeOK || o == OutcomeAnomalie
}

// PhotoList is a slice of photo references stored as a jsonb column.
type PhotoList []string

// Value implements driver.Valuer for jsonb storage
func (p PhotoList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for jsonb storage
func (p *PhotoList) Scan(value interface{}) error {
	if value == nil {
		*p = PhotoList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PhotoList: unsupported type")
	}
	if len(bytes) == 0 {
		*p = PhotoList{}
		return nil
	}
	return json.Unmarshal(bytes, p)
}

// EdlItem is one checklist line of an inspection.
type EdlItem struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key"`
	EdlID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	Label     string      `gorm:"type:varchar(200);not null"`
	Position  int         `gorm:"not null"`
	Etat      ItemOutcome `gorm:"type:varchar(10)"`
	Comment   string      `gorm:"type:text"`
	Photos    PhotoList   `gorm:"type:jsonb;default:'[]'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Edl is the move-in/move-out inspection aggregate. It owns its ordered
// checklist items; the workflow starts implicitly when the first item
// receives an outcome.
type Edl struct {
	shared.BaseAggregateRoot
	DossierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        EdlType   `gorm:"type:varchar(10);not null"`
	Statut      EdlStatus `gorm:"type:varchar(20);not null;index"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	Items       []EdlItem `gorm:"foreignKey:EdlID"`
}

// NewEdl creates an inspection with its checklist labels, all items
// unassessed.
func NewEdl(dossierID uuid.UUID, typ EdlType, itemLabels []string) (*Edl, error) {
	if dossierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Dossier ID cannot be empty")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Inspection type must be ARRIVEE or DEPART")
	}
	if len(itemLabels) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "An inspection needs at least one checklist item")
	}

	e := &Edl{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DossierID:         dossierID,
		Type:              typ,
		Statut:            EdlNonCommence,
		Items:             make([]EdlItem, 0, len(itemLabels)),
	}
	now := time.Now()
	for i, label := range itemLabels {
		if label == "" {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Checklist item label cannot be empty")
		}
		e.Items = append(e.Items, EdlItem{
			ID:        uuid.New(),
			EdlID:     e.ID,
			Label:     label,
			Position:  i,
			Etat:      OutcomeNone,
			Photos:    PhotoList{},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return e, nil
}

// RecordItemOutcome sets an item's result. The first recorded outcome
// implicitly moves the inspection from NON_COMMENCE to EN_COURS; there
// is no explicit start action.
func (e *Edl) RecordItemOutcome(itemID uuid.UUID, outcome ItemOutcome, comment string, photos []string) error {
	if e.Statut.IsFinalized() {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit items of a finalized inspection")
	}
	if !outcome.IsSet() {
		return shared.NewDomainError("VALIDATION_ERROR", "Item outcome must be OK or ANOMALIE")
	}

	item := e.item(itemID)
	if item == nil {
		return shared.NewDomainError("NOT_FOUND", "Checklist item not found")
	}

	now := time.Now()
	item.Etat = outcome
	item.Comment = comment
	item.Photos = PhotoList(photos)
	item.UpdatedAt = now

	if e.Statut == EdlNonCommence {
		e.Statut = EdlEnCours
		e.StartedAt = &now
	}
	e.UpdatedAt = now

	return nil
}

// CanFinalize reports whether every item has a recorded outcome.
func (e *Edl) CanFinalize() bool {
	if e.Statut != EdlEnCours {
		return false
	}
	for i := range e.Items {
		if !e.Items[i].Etat.IsSet() {
			return false
		}
	}
	return true
}

// HasAnomaly reports whether any item was flagged ANOMALIE.
func (e *Edl) HasAnomaly() bool {
	for i := range e.Items {
		if e.Items[i].Etat == OutcomeAnomalie {
			return true
		}
	}
	return false
}

// Finalize completes the inspection: TERMINE_INCIDENT when any item is
// ANOMALIE, TERMINE_OK otherwise. Item-level anomalies alone decide the
// outcome; attached incident records do not.
func (e *Edl) Finalize() error {
	if e.Statut.IsFinalized() {
		return shared.NewDomainError("INVALID_STATE", "Inspection is already finalized")
	}
	if !e.CanFinalize() {
		return shared.NewDomainError("INVALID_STATE", "Every checklist item needs an outcome before finalizing")
	}

	now := time.Now()
	if e.HasAnomaly() {
		e.Statut = EdlTermineIncident
	} else {
		e.Statut = EdlTermineOK
	}
	e.CompletedAt = &now
	e.UpdatedAt = now

	e.AddDomainEvent(NewEdlFinalizedEvent(e))

	return nil
}

// Reopen puts a finalized inspection back in EN_COURS. Re-finalization
// cycles are unlimited.
func (e *Edl) Reopen() error {
	if !e.Statut.IsFinalized() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reopen an inspection in %s status", e.Statut))
	}

	e.Statut = EdlEnCours
	e.CompletedAt = nil
	e.UpdatedAt = time.Now()

	return nil
}

// AcceptsIncidents reports whether incident records may be attached or
// edited: any time once the inspection has left NON_COMMENCE.
func (e *Edl) AcceptsIncidents() bool {
	return e.Statut != EdlNonCommence
}

// GetItem returns an item by ID, or nil.
func (e *Edl) GetItem(itemID uuid.UUID) *EdlItem {
	return e.item(itemID)
}

func (e *Edl) item(itemID uuid.UUID) *EdlItem {
	for i := range e.Items {
		if e.Items[i].ID == itemID {
			return &e.Items[i]
		}
	}
	return nil
}

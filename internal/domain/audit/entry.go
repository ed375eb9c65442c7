package audit

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/gites/backend/internal/domain/permission"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FieldChange records one field's before and after values.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// FieldChanges is a list of field changes stored as a jsonb column.
type FieldChanges []FieldChange

// Value implements driver.Valuer for jsonb storage
func (c FieldChanges) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for jsonb storage
func (c *FieldChanges) Scan(value interface{}) error {
	if value == nil {
		*c = FieldChanges{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan FieldChanges: unsupported type")
	}
	if len(bytes) == 0 {
		*c = FieldChanges{}
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// Metadata holds free-form context for an entry, stored as jsonb.
type Metadata map[string]interface{}

// Value implements driver.Valuer for jsonb storage
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb storage
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Metadata: unsupported type")
	}
	if len(bytes) == 0 {
		*m = Metadata{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Entry is one append-only audit record. Entries are never updated or
// deleted once written.
type Entry struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntityType string          `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_audit_entity"`
	Action     string          `gorm:"type:varchar(50);not null"`
	Changes    FieldChanges    `gorm:"type:jsonb;not null;default:'[]'"`
	Metadata   Metadata        `gorm:"type:jsonb;not null;default:'{}'"`
	ActorID    string          `gorm:"type:varchar(100);not null"`
	ActorRole  permission.Role `gorm:"type:varchar(10);not null"`
	OccurredAt time.Time       `gorm:"not null;index"`
}

// TableName sets the table name for gorm
func (Entry) TableName() string {
	return "audit_entries"
}

// NewEntry creates an audit entry stamped with the acting user.
func NewEntry(entityType string, entityID uuid.UUID, action string, actor Actor, changes []FieldChange, metadata Metadata) (*Entry, error) {
	if entityType == "" || action == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Audit entry needs an entity type and an action")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Audit entry needs an entity ID")
	}
	if actor.ID == "" || !actor.Role.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Audit entry needs a valid actor")
	}

	if changes == nil {
		changes = []FieldChange{}
	}
	if metadata == nil {
		metadata = Metadata{}
	}

	return &Entry{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    FieldChanges(changes),
		Metadata:   metadata,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OccurredAt: time.Now(),
	}, nil
}

// Actor identifies who performed an audited action.
type Actor struct {
	ID   string
	Role permission.Role
}

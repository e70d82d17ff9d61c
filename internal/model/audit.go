package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreatePackage       = "CREATE_PACKAGE"
	ActionUpdatePackage       = "UPDATE_PACKAGE"
	ActionDriverPickup        = "DRIVER_PICKUP"
	ActionReceiveAtCollection = "RECEIVE_AT_COLLECTION"

	ActionCreateStaff     = "CREATE_STAFF"
	ActionUpdateStaff     = "UPDATE_STAFF"
	ActionDeactivateStaff = "DEACTIVATE_STAFF"
	ActionReactivateStaff = "REACTIVATE_STAFF"

	ActionSignIn  = "SIGN_IN"
	ActionSignOut = "SIGN_OUT"
)

// AuditLog tracks Who, What, and When for dashboard actions. This is the
// only state the dashboard persists itself; everything else mirrors the
// remote backend. Actor fields come from the provider token, not a local
// users table.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    string    `gorm:"type:varchar(50);index" json:"actor_id"`         // provider user id, empty for system events
	ActorEmail string    `gorm:"type:varchar(255)" json:"actor_email,omitempty"` // human readable actor
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`        // remote uuid or reference code
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // reference code / staff name
	Details    string    `gorm:"type:jsonb" json:"details"`                      // serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

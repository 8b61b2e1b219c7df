package audit

import (
	"time"

	auditDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/audit"
)

type Action string

const (
	ActionUserLogin         Action = "USER_LOGIN"
	ActionUserLogout        Action = "USER_LOGOUT"
	ActionUserCreated       Action = "USER_CREATED"
	ActionUserUpdated       Action = "USER_UPDATED"
	ActionUserStatusChanged Action = "USER_STATUS_CHANGED"
	ActionUserDeleted       Action = "USER_DELETED"
	ActionInventoryAdd      Action = "INVENTORY_ADD"
	ActionInventoryUpdate   Action = "INVENTORY_UPDATE"
	ActionInventoryDelete   Action = "INVENTORY_DELETE"
	ActionInventoryReset    Action = "INVENTORY_RESET"
)

// Entry is one recorded action. UserID and Username are nil for actions taken
// without a session.
type Entry struct {
	ID        int64
	Timestamp time.Time
	UserID    *int64
	Username  *string
	Action    Action
	Details   string
}

func (e *Entry) ToResponse() LogResponse {
	return LogResponse{
		Timestamp: e.Timestamp,
		Username:  e.Username,
		Action:    string(e.Action),
		Details:   e.Details,
	}
}

func FromDataModel(e *auditDatamodel.Entry) *Entry {
	entry := &Entry{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Action:    Action(e.Action),
		Details:   e.Details,
	}
	if e.UserID.Valid {
		id := e.UserID.Int64
		entry.UserID = &id
	}
	if e.Username.Valid {
		name := e.Username.String
		entry.Username = &name
	}
	return entry
}

package model

// Package status values as stored by the remote backend. The set is closed;
// transition legality is decided server-side and the client only mirrors
// confirmed state.
const (
	StatusPending            = "pending"
	StatusNotified           = "notified"
	StatusInTransit          = "in_transit"
	StatusReadyForCollection = "ready_for_collection"
	StatusDelivered          = "delivered"
	StatusCollected          = "collected"
)

// PackageStatuses lists every valid status, in lifecycle order.
var PackageStatuses = []string{
	StatusPending,
	StatusNotified,
	StatusInTransit,
	StatusReadyForCollection,
	StatusDelivered,
	StatusCollected,
}

// PackageItem is a single line item on a package.
type PackageItem struct {
	ID          string `json:"id,omitempty"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// Package is the central tracked entity. IDs and reference codes are
// assigned by the remote backend on creation.
type Package struct {
	ID            string        `json:"id"`
	Reference     string        `json:"reference"`
	ReceiverEmail string        `json:"receiver_email"`
	Notes         *string       `json:"notes"`
	Status        string        `json:"status"`
	CreatedAt     string        `json:"created_at"`
	CreatedBy     string        `json:"created_by,omitempty"`
	UpdatedAt     string        `json:"updated_at,omitempty"`
	Items         []PackageItem `json:"items,omitempty"`
}

// IsValidStatus reports whether s belongs to the closed status set.
func IsValidStatus(s string) bool {
	for _, v := range PackageStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsFinalStatus reports whether a package can no longer be updated.
func IsFinalStatus(s string) bool {
	return s == StatusDelivered || s == StatusCollected
}

// NextActionLabel returns the suggested UI action for the current status.
// Display hint only; it enforces nothing.
func NextActionLabel(status string) string {
	switch status {
	case StatusPending:
		return "Mark as Notified"
	case StatusNotified:
		return "Start Transit"
	case StatusInTransit:
		return "Mark Ready"
	case StatusReadyForCollection:
		return "Mark Collected"
	default:
		return "Update Status"
	}
}

// CreatePackageRequest is the payload for the create-package function.
type CreatePackageRequest struct {
	ReceiverEmail      string        `json:"receiver_email" binding:"required,email"`
	Notes              string        `json:"notes,omitempty"`
	Items              []PackageItem `json:"items,omitempty"`
	DeliveryLocationID string        `json:"delivery_location_id,omitempty"`
	PONumber           string        `json:"po_number,omitempty"`
}

// UpdatePackageRequest is the payload for the update-package function.
// All fields besides the id are optional.
type UpdatePackageRequest struct {
	PackageID     string `json:"package_id"`
	Status        string `json:"status,omitempty"`
	Notes         string `json:"notes,omitempty"`
	ReceiverEmail string `json:"receiver_email,omitempty" binding:"omitempty,email"`
}

// PackageFilters narrows a package list load.
type PackageFilters struct {
	Status string // equality match against the status column
	Search string // OR ilike across reference and receiver_email
	Limit  int    // row cap, 0 means server default
}

// PackageLockStatus mirrors the get_pod_lock_status RPC result.
type PackageLockStatus struct {
	IsLocked     bool    `json:"isLocked"`
	LockedAt     *string `json:"lockedAt"`
	PodReference *string `json:"podReference"`
	PDFURL       *string `json:"pdfUrl"`
}

package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"packtrack/internal/model"
)

// RPCAPI exposes the remote procedure calls around POD locking.
type RPCAPI interface {
	IsPackageLocked(ctx context.Context, token, packageID string) (bool, error)
	GetLockStatus(ctx context.Context, token, packageID string) (*model.PackageLockStatus, error)
}

func (c *Client) callRPC(ctx context.Context, token, name string, payload interface{}) ([]byte, error) {
	url := c.baseURL + "/rest/v1/rpc/" + name
	status, data, err := c.doJSON(ctx, http.MethodPost, url, token, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeRowsError(status, data)
	}
	return data, nil
}

// IsPackageLocked asks the backend whether a package is POD-locked.
func (c *Client) IsPackageLocked(ctx context.Context, token, packageID string) (bool, error) {
	data, err := c.callRPC(ctx, token, "is_pod_locked", map[string]string{"package_id": packageID})
	if err != nil {
		return false, err
	}
	var locked bool
	if err := json.Unmarshal(data, &locked); err != nil {
		return false, err
	}
	return locked, nil
}

// GetLockStatus returns lock details for a package, or nil when the
// backend reports no lock record at all.
func (c *Client) GetLockStatus(ctx context.Context, token, packageID string) (*model.PackageLockStatus, error) {
	data, err := c.callRPC(ctx, token, "get_pod_lock_status", map[string]string{"package_id": packageID})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" || string(data) == "[]" || string(data) == "{}" {
		return nil, nil
	}
	var status model.PackageLockStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

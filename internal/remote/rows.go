package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"packtrack/internal/model"
)

// RowsAPI is the filterable read/write surface over the two remote tables.
// Row-level policies on the remote side decide what each token may touch.
type RowsAPI interface {
	ListPackages(ctx context.Context, token string, filters model.PackageFilters) ([]model.Package, error)
	GetPackageByID(ctx context.Context, token, id string) (*model.Package, error)
	GetPackageByReference(ctx context.Context, token, reference string) (*model.Package, error)

	ListStaff(ctx context.Context, token string) ([]model.StaffProfile, error)
	GetStaffByID(ctx context.Context, token, id string) (*model.StaffProfile, error)
	GetStaffByUserID(ctx context.Context, token, userID string) (*model.StaffProfile, error)
	UpdateStaffProfile(ctx context.Context, token, id string, fields map[string]interface{}) (*model.StaffProfile, error)
}

func (c *Client) rowsURL(table string, params url.Values) string {
	return c.baseURL + "/rest/v1/" + table + "?" + params.Encode()
}

func decodeRowsError(status int, data []byte) error {
	var body struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return errors.New(body.Message)
	}
	return fmt.Errorf("row query failed with status %d", status)
}

func (c *Client) queryRows(ctx context.Context, token, table string, params url.Values, out interface{}) error {
	status, data, err := c.doJSON(ctx, http.MethodGet, c.rowsURL(table, params), token, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return decodeRowsError(status, data)
	}
	return json.Unmarshal(data, out)
}

// ListPackages loads a filtered package list with line items joined,
// newest first.
func (c *Client) ListPackages(ctx context.Context, token string, filters model.PackageFilters) ([]model.Package, error) {
	params := url.Values{}
	params.Set("select", "*,items:package_items(*)")
	params.Set("order", "created_at.desc")
	if filters.Status != "" {
		params.Set("status", "eq."+filters.Status)
	}
	if filters.Search != "" {
		term := "*" + escapeSearchTerm(filters.Search) + "*"
		params.Set("or", "(reference.ilike."+term+",receiver_email.ilike."+term+")")
	}
	if filters.Limit > 0 {
		params.Set("limit", strconv.Itoa(filters.Limit))
	}

	var packages []model.Package
	if err := c.queryRows(ctx, token, "packages", params, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// GetPackageByID fetches a single package row or ErrNotFound.
func (c *Client) GetPackageByID(ctx context.Context, token, id string) (*model.Package, error) {
	params := url.Values{}
	params.Set("select", "*,items:package_items(*)")
	params.Set("id", "eq."+id)
	params.Set("limit", "1")
	return c.singlePackage(ctx, token, params)
}

// GetPackageByReference fetches by reference code. Codes are stored
// upper-cased remotely, so the lookup key is normalized the same way.
func (c *Client) GetPackageByReference(ctx context.Context, token, reference string) (*model.Package, error) {
	params := url.Values{}
	params.Set("select", "*,items:package_items(*)")
	params.Set("reference", "eq."+strings.ToUpper(reference))
	params.Set("limit", "1")
	return c.singlePackage(ctx, token, params)
}

func (c *Client) singlePackage(ctx context.Context, token string, params url.Values) (*model.Package, error) {
	var packages []model.Package
	if err := c.queryRows(ctx, token, "packages", params, &packages); err != nil {
		return nil, err
	}
	if len(packages) == 0 {
		return nil, ErrNotFound
	}
	return &packages[0], nil
}

// ListStaff loads every staff profile visible to the token, newest first.
func (c *Client) ListStaff(ctx context.Context, token string) ([]model.StaffProfile, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", "created_at.desc")

	var profiles []model.StaffProfile
	if err := c.queryRows(ctx, token, "staff_profiles", params, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetStaffByID fetches a single profile row or ErrNotFound.
func (c *Client) GetStaffByID(ctx context.Context, token, id string) (*model.StaffProfile, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("id", "eq."+id)
	params.Set("limit", "1")
	return c.singleStaff(ctx, token, params)
}

// GetStaffByUserID fetches the profile linked to an auth user id. A user
// freshly provisioned by the provider may have no profile row yet; that
// surfaces as ErrNotFound.
func (c *Client) GetStaffByUserID(ctx context.Context, token, userID string) (*model.StaffProfile, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("user_id", "eq."+userID)
	params.Set("limit", "1")
	return c.singleStaff(ctx, token, params)
}

func (c *Client) singleStaff(ctx context.Context, token string, params url.Values) (*model.StaffProfile, error) {
	var profiles []model.StaffProfile
	if err := c.queryRows(ctx, token, "staff_profiles", params, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}

// UpdateStaffProfile patches the given columns and returns the updated row.
func (c *Client) UpdateStaffProfile(ctx context.Context, token, id string, fields map[string]interface{}) (*model.StaffProfile, error) {
	params := url.Values{}
	params.Set("id", "eq."+id)
	params.Set("select", "*")

	status, data, err := c.doJSONWithHeaders(ctx, http.MethodPatch, c.rowsURL("staff_profiles", params), token, fields,
		map[string]string{"Prefer": "return=representation"})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, decodeRowsError(status, data)
	}

	var profiles []model.StaffProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}

// escapeSearchTerm strips characters that would break the OR filter syntax.
func escapeSearchTerm(term string) string {
	replacer := strings.NewReplacer(",", " ", "(", " ", ")", " ", "*", " ")
	return strings.TrimSpace(replacer.Replace(term))
}

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"packtrack/internal/model"
)

// Function names owned by the hosted backend.
const (
	FnCreatePackage       = "create-package"
	FnUpdatePackage       = "update-package"
	FnDriverPickup        = "driver-pickup"
	FnReceiveAtCollection = "receive-at-collection"
	FnCreateStaff         = "create-staff"
)

const lockedErrCode = "pod_locked"
const lockedErrMessage = "Package is locked"

// FunctionError is a business-rule failure reported by a serverless
// function, decoded once at this boundary so callers never re-inspect
// raw field presence.
type FunctionError struct {
	Code    string
	Message string
	Details string
}

// Error prefers the longer details string over the short message.
func (e *FunctionError) Error() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// Locked reports whether the failure is a POD lock conflict. The stable
// code is checked first; the literal message match keeps deployments that
// predate the code contract working.
func (e *FunctionError) Locked() bool {
	return e.Code == lockedErrCode || e.Message == lockedErrMessage
}

// FunctionResult is the success branch of a function response. Package or
// Profile is set depending on the function invoked.
type FunctionResult struct {
	Package    *model.Package
	Profile    *model.StaffProfile
	EmailSent  bool
	EmailError string
}

// FunctionsAPI invokes the named serverless functions.
type FunctionsAPI interface {
	Invoke(ctx context.Context, token, name string, payload interface{}) (*FunctionResult, error)
}

// Invoke POSTs the payload to {functionsURL}/{name} and decodes the tagged
// response. Business failures come back as *FunctionError; transport and
// parse failures as plain errors.
func (c *Client) Invoke(ctx context.Context, token, name string, payload interface{}) (*FunctionResult, error) {
	url := c.functionsURL + "/" + name
	_, data, err := c.doJSON(ctx, http.MethodPost, url, token, payload)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Package    *model.Package      `json:"package"`
		Profile    *model.StaffProfile `json:"profile"`
		EmailSent  bool                `json:"email_sent"`
		EmailError *string             `json:"email_error"`
		Error      string              `json:"error"`
		Code       string              `json:"code"`
		Details    string              `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if raw.Error != "" {
		return nil, &FunctionError{Code: raw.Code, Message: raw.Error, Details: raw.Details}
	}
	if raw.Package == nil && raw.Profile == nil {
		return nil, errors.New("unexpected response format")
	}

	result := &FunctionResult{
		Package:   raw.Package,
		Profile:   raw.Profile,
		EmailSent: raw.EmailSent,
	}
	if raw.EmailError != nil {
		result.EmailError = *raw.EmailError
	}
	return result, nil
}

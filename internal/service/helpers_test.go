package service

import (
	"context"

	"packtrack/internal/model"
	"packtrack/internal/remote"
)

// -------- test fakes --------

type fakeSession struct {
	token      string
	refresh    string
	user       *remote.AuthUser
	freshToken string
	refreshErr error

	refreshCalls int
}

func (f *fakeSession) Initialize(ctx context.Context) {}

func (f *fakeSession) WaitUntilInitialized(ctx context.Context) error { return nil }

func (f *fakeSession) IsAuthenticated() bool { return f.token != "" }

func (f *fakeSession) CurrentUser() *remote.AuthUser { return f.user }

func (f *fakeSession) SignIn(context.Context, string, string) AuthResult { return AuthResult{} }

func (f *fakeSession) SignUp(context.Context, string, string) AuthResult { return AuthResult{} }

func (f *fakeSession) SignOut(context.Context) AuthResult { return AuthResult{} }

func (f *fakeSession) ResetPassword(context.Context, string) AuthResult { return AuthResult{} }

func (f *fakeSession) State() string {
	if f.token != "" {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

func (f *fakeSession) AccessToken() (string, bool) {
	return f.token, f.token != ""
}

func (f *fakeSession) RefreshToken() (string, bool) {
	return f.refresh, f.refresh != ""
}

func (f *fakeSession) RefreshSession(ctx context.Context) error {
	f.refreshCalls++
	if f.refreshErr != nil {
		return f.refreshErr
	}
	if f.freshToken != "" {
		f.token = f.freshToken
	}
	return nil
}

type fakeRows struct {
	remote.RowsAPI

	packages    []model.Package
	listErr     error
	listCalls   int
	lastFilters model.PackageFilters

	pkgByID *model.Package
	pkgErr  error
	lastRef string

	staffList      []model.StaffProfile
	staffByUser    *model.StaffProfile
	staffByUserErr error
	staffByID      *model.StaffProfile
	staffByIDErr   error

	updatedProfile *model.StaffProfile
	updateErr      error
	lastFields     map[string]interface{}
}

func (f *fakeRows) ListPackages(ctx context.Context, token string, filters model.PackageFilters) ([]model.Package, error) {
	f.listCalls++
	f.lastFilters = filters
	return f.packages, f.listErr
}

func (f *fakeRows) GetPackageByID(ctx context.Context, token, id string) (*model.Package, error) {
	return f.pkgByID, f.pkgErr
}

func (f *fakeRows) GetPackageByReference(ctx context.Context, token, reference string) (*model.Package, error) {
	f.lastRef = reference
	return f.pkgByID, f.pkgErr
}

func (f *fakeRows) ListStaff(ctx context.Context, token string) ([]model.StaffProfile, error) {
	return f.staffList, nil
}

func (f *fakeRows) GetStaffByID(ctx context.Context, token, id string) (*model.StaffProfile, error) {
	return f.staffByID, f.staffByIDErr
}

func (f *fakeRows) GetStaffByUserID(ctx context.Context, token, userID string) (*model.StaffProfile, error) {
	return f.staffByUser, f.staffByUserErr
}

func (f *fakeRows) UpdateStaffProfile(ctx context.Context, token, id string, fields map[string]interface{}) (*model.StaffProfile, error) {
	f.lastFields = fields
	return f.updatedProfile, f.updateErr
}

type fakeFunctions struct {
	result *remote.FunctionResult
	err    error

	calls       int
	lastName    string
	lastToken   string
	lastPayload interface{}
}

func (f *fakeFunctions) Invoke(ctx context.Context, token, name string, payload interface{}) (*remote.FunctionResult, error) {
	f.calls++
	f.lastName = name
	f.lastToken = token
	f.lastPayload = payload
	return f.result, f.err
}

type fakeRPC struct {
	locked    bool
	lockedErr error
	status    *model.PackageLockStatus
}

func (f *fakeRPC) IsPackageLocked(ctx context.Context, token, packageID string) (bool, error) {
	return f.locked, f.lockedErr
}

func (f *fakeRPC) GetLockStatus(ctx context.Context, token, packageID string) (*model.PackageLockStatus, error) {
	return f.status, nil
}

type fakeAuth struct {
	session    *remote.Session
	signInErr  error
	refreshErr error
	signOutErr error

	refreshCalls int
	signOutCalls int
	lastRefresh  string
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*remote.Session, error) {
	return f.session, f.signInErr
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*remote.Session, error) {
	return f.session, f.signInErr
}

func (f *fakeAuth) SignOut(ctx context.Context, token string) error {
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeAuth) RefreshSession(ctx context.Context, refreshToken string) (*remote.Session, error) {
	f.refreshCalls++
	f.lastRefresh = refreshToken
	return f.session, f.refreshErr
}

func (f *fakeAuth) ResetPassword(ctx context.Context, email string) error {
	return nil
}

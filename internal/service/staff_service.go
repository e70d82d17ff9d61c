package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"packtrack/internal/model"
	"packtrack/internal/remote"

	"github.com/sirupsen/logrus"
)

// StaffOpResult is the discriminated outcome of a staff mutation.
type StaffOpResult struct {
	Success bool                `json:"success"`
	Profile *model.StaffProfile `json:"profile,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// StaffService caches the staff profile list and the signed-in user's own
// profile. Admin gating here only decides which actions the dashboard
// offers; the remote row-level policies are the real enforcement.
type StaffService interface {
	LoadCurrentProfile(ctx context.Context) (*model.StaffProfile, error)
	CurrentProfile() *model.StaffProfile
	IsAdmin() bool
	HasRole(role string) bool

	LoadAllStaff(ctx context.Context) ([]model.StaffProfile, error)
	StaffList() []model.StaffProfile
	IsLoading() bool
	LastError() string
	ClearError()
	ClearList()

	GetStaffByID(ctx context.Context, id string) (*model.StaffProfile, error)
	CreateStaff(ctx context.Context, req model.CreateStaffRequest) StaffOpResult
	UpdateStaff(ctx context.Context, id string, req model.UpdateStaffRequest) StaffOpResult
	DeactivateStaff(ctx context.Context, id string) StaffOpResult
	ReactivateStaff(ctx context.Context, id string) StaffOpResult
}

type staffService struct {
	sessions  SessionService
	rows      remote.RowsAPI
	functions remote.FunctionsAPI

	mu      sync.RWMutex
	current *model.StaffProfile
	list    []model.StaffProfile
	lastErr string

	loading atomic.Int32
}

// NewStaffService wires the staff container.
func NewStaffService(sessions SessionService, rows remote.RowsAPI, functions remote.FunctionsAPI) StaffService {
	return &staffService{sessions: sessions, rows: rows, functions: functions}
}

func (s *staffService) token() string {
	token, _ := s.sessions.AccessToken()
	return token
}

// LoadCurrentProfile fetches the profile linked to the authenticated user.
// A fresh user without a profile row yet resolves to nil, not an error.
func (s *staffService) LoadCurrentProfile(ctx context.Context) (*model.StaffProfile, error) {
	user := s.sessions.CurrentUser()
	if user == nil {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		return nil, nil
	}

	s.loading.Add(1)
	defer s.loading.Add(-1)

	profile, err := s.rows.GetStaffByUserID(ctx, s.token(), user.ID)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			s.mu.Lock()
			s.current = nil
			s.mu.Unlock()
			return nil, nil
		}
		s.setError(errUnexpected)
		logrus.WithError(err).Error("current profile load failed")
		return nil, err
	}

	s.mu.Lock()
	s.current = profile
	s.lastErr = ""
	s.mu.Unlock()
	return profile, nil
}

func (s *staffService) CurrentProfile() *model.StaffProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *staffService) IsAdmin() bool { return s.HasRole(model.RoleAdmin) }

func (s *staffService) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Role == role
}

// LoadAllStaff replaces the cached list on success and leaves it untouched
// on failure, mirroring the package container semantics.
func (s *staffService) LoadAllStaff(ctx context.Context) ([]model.StaffProfile, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	profiles, err := s.rows.ListStaff(ctx, s.token())
	if err != nil {
		s.setError(errUnexpected)
		logrus.WithError(err).Error("staff list load failed")
		return nil, err
	}

	s.mu.Lock()
	s.list = profiles
	s.lastErr = ""
	s.mu.Unlock()
	return profiles, nil
}

func (s *staffService) StaffList() []model.StaffProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StaffProfile, len(s.list))
	copy(out, s.list)
	return out
}

func (s *staffService) IsLoading() bool { return s.loading.Load() > 0 }

func (s *staffService) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *staffService) ClearError() { s.setError("") }

func (s *staffService) ClearList() {
	s.mu.Lock()
	s.list = nil
	s.mu.Unlock()
}

func (s *staffService) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *staffService) GetStaffByID(ctx context.Context, id string) (*model.StaffProfile, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	profile, err := s.rows.GetStaffByID(ctx, s.token(), id)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			s.setError("Staff profile not found")
		} else {
			s.setError(errUnexpected)
			logrus.WithError(err).Error("staff lookup failed")
		}
		return nil, err
	}
	return profile, nil
}

// CreateStaff provisions both the auth credential and the profile row via
// the admin-only create-staff function, then prepends the new profile to
// the cached list.
func (s *staffService) CreateStaff(ctx context.Context, req model.CreateStaffRequest) StaffOpResult {
	if !s.IsAdmin() {
		return s.opFailure("Only admins can create staff profiles")
	}
	if !model.IsValidRole(req.Role) {
		return s.opFailure("invalid role: must be admin, manager, staff, or viewer")
	}

	token, ok := s.sessions.AccessToken()
	if !ok {
		return s.opFailure(MsgNotAuthenticated)
	}

	s.loading.Add(1)
	defer s.loading.Add(-1)

	res, err := s.functions.Invoke(ctx, token, remote.FnCreateStaff, req)
	if err != nil {
		var fnErr *remote.FunctionError
		if errors.As(err, &fnErr) {
			return s.opFailure(fnErr.Error())
		}
		logrus.WithError(err).Error("staff creation failed")
		return s.opFailure(errUnexpected)
	}

	s.mu.Lock()
	s.list = append([]model.StaffProfile{*res.Profile}, s.list...)
	s.lastErr = ""
	s.mu.Unlock()

	return StaffOpResult{Success: true, Profile: res.Profile}
}

// UpdateStaff patches a profile row and replaces the matching cached
// record by identity, all other elements untouched.
func (s *staffService) UpdateStaff(ctx context.Context, id string, req model.UpdateStaffRequest) StaffOpResult {
	if !s.IsAdmin() {
		return s.opFailure("Only admins can update staff profiles")
	}
	if req.Role != "" && !model.IsValidRole(req.Role) {
		return s.opFailure("invalid role: must be admin, manager, staff, or viewer")
	}

	token, ok := s.sessions.AccessToken()
	if !ok {
		return s.opFailure(MsgNotAuthenticated)
	}

	fields := req.Fields()
	if len(fields) == 0 {
		return s.opFailure("nothing to update")
	}

	s.loading.Add(1)
	defer s.loading.Add(-1)

	profile, err := s.rows.UpdateStaffProfile(ctx, token, id, fields)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return s.opFailure("Staff profile not found")
		}
		logrus.WithError(err).Error("staff update failed")
		return s.opFailure(errUnexpected)
	}

	s.mu.Lock()
	for i := range s.list {
		if s.list[i].ID == profile.ID {
			s.list[i] = *profile
			break
		}
	}
	if s.current != nil && s.current.ID == profile.ID {
		s.current = profile
	}
	s.lastErr = ""
	s.mu.Unlock()

	return StaffOpResult{Success: true, Profile: profile}
}

// DeactivateStaff soft-deletes by flipping is_active off. Profiles are
// never hard-deleted.
func (s *staffService) DeactivateStaff(ctx context.Context, id string) StaffOpResult {
	inactive := false
	return s.UpdateStaff(ctx, id, model.UpdateStaffRequest{IsActive: &inactive})
}

// ReactivateStaff flips is_active back on.
func (s *staffService) ReactivateStaff(ctx context.Context, id string) StaffOpResult {
	active := true
	return s.UpdateStaff(ctx, id, model.UpdateStaffRequest{IsActive: &active})
}

func (s *staffService) opFailure(msg string) StaffOpResult {
	s.setError(msg)
	return StaffOpResult{Success: false, Error: msg}
}

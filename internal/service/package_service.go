package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"packtrack/internal/model"
	"packtrack/internal/remote"
	"packtrack/pkg/debounce"

	"github.com/sirupsen/logrus"
)

// MsgNotAuthenticated is the fixed failure message of every mutation
// attempted without a session. Handlers match on it to answer 401.
const MsgNotAuthenticated = "You must be logged in to perform this action"

const errUnexpected = "An unexpected error occurred"

// PackageOpResult is the discriminated outcome of a package mutation.
// Callers branch on Success; they never see a panic or a thrown error.
type PackageOpResult struct {
	Success    bool           `json:"success"`
	Package    *model.Package `json:"package,omitempty"`
	EmailSent  bool           `json:"email_sent,omitempty"`
	EmailError string         `json:"email_error,omitempty"`
	Error      string         `json:"error,omitempty"`
	IsLocked   bool           `json:"is_locked,omitempty"`
}

// PackageService is the single in-memory source of truth for the package
// list plus the workflow transitions around it. The cached list holds last
// known server state; every successful mutation replaces exactly one
// record by identity. No operation retries automatically.
type PackageService interface {
	LoadPackages(ctx context.Context, filters model.PackageFilters) ([]model.Package, error)

	// SearchPackages schedules a debounced search load; rapid successive
	// calls collapse into the last one.
	SearchPackages(term string)

	Packages() []model.Package
	IsLoading() bool
	LastError() string
	ClearError()
	ClearList()

	GetPackageByID(ctx context.Context, id string) (*model.Package, error)
	GetPackageByReference(ctx context.Context, reference string) (*model.Package, error)

	CreatePackage(ctx context.Context, req model.CreatePackageRequest) PackageOpResult
	UpdatePackage(ctx context.Context, req model.UpdatePackageRequest) PackageOpResult
	DriverPickup(ctx context.Context, id string) PackageOpResult
	ReceiveAtCollection(ctx context.Context, id string) PackageOpResult

	IsLocked(ctx context.Context, id string) (bool, error)
	LockStatus(ctx context.Context, id string) (*model.PackageLockStatus, error)

	StatusCounts(ctx context.Context) (map[string]int, error)

	// RecentPackages fetches the newest n packages without touching the
	// cached list.
	RecentPackages(ctx context.Context, n int) ([]model.Package, error)
}

type packageService struct {
	sessions  SessionService
	rows      remote.RowsAPI
	functions remote.FunctionsAPI
	rpc       remote.RPCAPI

	mu       sync.RWMutex
	packages []model.Package
	lastErr  string

	loading  atomic.Int32
	loadSeq  atomic.Uint64
	searcher *debounce.Debouncer
}

// NewPackageService wires the container against the session service and
// the remote backend surfaces. searchDelay is the debounce applied to
// search-input driven loads.
func NewPackageService(sessions SessionService, rows remote.RowsAPI, functions remote.FunctionsAPI, rpc remote.RPCAPI, searchDelay time.Duration) PackageService {
	return &packageService{
		sessions:  sessions,
		rows:      rows,
		functions: functions,
		rpc:       rpc,
		searcher:  debounce.New(searchDelay),
	}
}

func (s *packageService) token() string {
	token, _ := s.sessions.AccessToken()
	return token
}

// LoadPackages replaces the whole cached list on success. On failure the
// previous list stays untouched and only the error slot changes. Each load
// carries a sequence number; a completion that is no longer the latest is
// discarded so overlapping loads cannot interleave out of order.
func (s *packageService) LoadPackages(ctx context.Context, filters model.PackageFilters) ([]model.Package, error) {
	seq := s.loadSeq.Add(1)

	s.loading.Add(1)
	defer s.loading.Add(-1)

	packages, err := s.rows.ListPackages(ctx, s.token(), filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq.Load() {
		// A newer load was issued while this one was in flight.
		return packages, err
	}
	if err != nil {
		logrus.WithError(err).Error("package list load failed")
		s.lastErr = errUnexpected
		return nil, err
	}
	s.packages = packages
	s.lastErr = ""
	return packages, nil
}

func (s *packageService) SearchPackages(term string) {
	s.searcher.Do(func() {
		_, _ = s.LoadPackages(context.Background(), model.PackageFilters{Search: term})
	})
}

func (s *packageService) Packages() []model.Package {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Package, len(s.packages))
	copy(out, s.packages)
	return out
}

func (s *packageService) IsLoading() bool { return s.loading.Load() > 0 }

func (s *packageService) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *packageService) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *packageService) ClearList() {
	s.mu.Lock()
	s.packages = nil
	s.mu.Unlock()
}

func (s *packageService) GetPackageByID(ctx context.Context, id string) (*model.Package, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	pkg, err := s.rows.GetPackageByID(ctx, s.token(), id)
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	return pkg, nil
}

// GetPackageByReference looks a package up by its case-insensitive
// reference code.
func (s *packageService) GetPackageByReference(ctx context.Context, reference string) (*model.Package, error) {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	pkg, err := s.rows.GetPackageByReference(ctx, s.token(), strings.ToUpper(reference))
	if err != nil {
		s.recordError(err)
		return nil, err
	}
	return pkg, nil
}

func (s *packageService) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if errors.Is(err, remote.ErrNotFound) {
		s.lastErr = "Package not found"
		return
	}
	logrus.WithError(err).Error("package lookup failed")
	s.lastErr = errUnexpected
}

// CreatePackage calls the create-package function and prepends the server-
// assigned entity to the cached list. Without an access token it fails
// locally and never issues a network call.
func (s *packageService) CreatePackage(ctx context.Context, req model.CreatePackageRequest) PackageOpResult {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	token, ok := s.sessions.AccessToken()
	if !ok {
		return s.failure(MsgNotAuthenticated)
	}

	res, err := s.functions.Invoke(ctx, token, remote.FnCreatePackage, req)
	if err != nil {
		return s.remoteFailure(err)
	}

	s.mu.Lock()
	s.packages = append([]model.Package{*res.Package}, s.packages...)
	s.mu.Unlock()

	return PackageOpResult{Success: true, Package: res.Package, EmailSent: res.EmailSent, EmailError: res.EmailError}
}

// UpdatePackage calls update-package and replaces the matching cached
// record. A POD lock conflict comes back with IsLocked set so callers can
// branch UI behavior; the container itself enforces nothing.
func (s *packageService) UpdatePackage(ctx context.Context, req model.UpdatePackageRequest) PackageOpResult {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	token, ok := s.sessions.AccessToken()
	if !ok {
		return s.failure(MsgNotAuthenticated)
	}

	res, err := s.functions.Invoke(ctx, token, remote.FnUpdatePackage, req)
	if err != nil {
		return s.remoteFailure(err)
	}

	s.replace(*res.Package)
	return PackageOpResult{Success: true, Package: res.Package}
}

// DriverPickup marks a package picked up by the driver. The pickup is a
// long-running physical step, so the session is force-refreshed first; if
// that fails the existing token is used best effort.
func (s *packageService) DriverPickup(ctx context.Context, id string) PackageOpResult {
	return s.transition(ctx, remote.FnDriverPickup, id)
}

// ReceiveAtCollection marks a package received at its collection point.
func (s *packageService) ReceiveAtCollection(ctx context.Context, id string) PackageOpResult {
	return s.transition(ctx, remote.FnReceiveAtCollection, id)
}

func (s *packageService) transition(ctx context.Context, fn, id string) PackageOpResult {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	token, ok := s.sessions.AccessToken()
	if !ok {
		return s.failure(MsgNotAuthenticated)
	}

	if err := s.sessions.RefreshSession(ctx); err != nil {
		logrus.WithError(err).Warn("forced session refresh failed, using existing token")
	} else if fresh, stillOK := s.sessions.AccessToken(); stillOK {
		token = fresh
	}

	res, err := s.functions.Invoke(ctx, token, fn, map[string]string{"package_id": id})
	if err != nil {
		return s.remoteFailure(err)
	}

	s.replace(*res.Package)
	return PackageOpResult{Success: true, Package: res.Package, EmailSent: res.EmailSent, EmailError: res.EmailError}
}

// replace swaps exactly the cached record matching the id; every other
// element is left as is. Packages evicted from the current list view are
// simply not present and nothing happens.
func (s *packageService) replace(pkg model.Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.packages {
		if s.packages[i].ID == pkg.ID {
			s.packages[i] = pkg
			return
		}
	}
}

func (s *packageService) failure(msg string) PackageOpResult {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	return PackageOpResult{Success: false, Error: msg}
}

func (s *packageService) remoteFailure(err error) PackageOpResult {
	var fnErr *remote.FunctionError
	if errors.As(err, &fnErr) {
		result := s.failure(fnErr.Error())
		result.IsLocked = fnErr.Locked()
		return result
	}
	logrus.WithError(err).Error("package operation failed")
	return s.failure(errUnexpected)
}

func (s *packageService) IsLocked(ctx context.Context, id string) (bool, error) {
	return s.rpc.IsPackageLocked(ctx, s.token(), id)
}

func (s *packageService) LockStatus(ctx context.Context, id string) (*model.PackageLockStatus, error) {
	return s.rpc.GetLockStatus(ctx, s.token(), id)
}

// StatusCounts aggregates the dashboard chart numbers from a fresh
// unfiltered load.
func (s *packageService) StatusCounts(ctx context.Context) (map[string]int, error) {
	packages, err := s.rows.ListPackages(ctx, s.token(), model.PackageFilters{Limit: 1000})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(model.PackageStatuses))
	for _, status := range model.PackageStatuses {
		counts[status] = 0
	}
	for _, pkg := range packages {
		counts[pkg.Status]++
	}
	return counts, nil
}

func (s *packageService) RecentPackages(ctx context.Context, n int) ([]model.Package, error) {
	return s.rows.ListPackages(ctx, s.token(), model.PackageFilters{Limit: n})
}

package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"packtrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPackagesQuery(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":"p1","reference":"PKG-001","status":"pending","items":[{"quantity":2,"description":"boxes"}]}]`))
	})

	packages, err := client.ListPackages(context.Background(), "tok", model.PackageFilters{
		Status: model.StatusPending,
		Search: "pkg",
		Limit:  50,
	})
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Len(t, packages[0].Items, 1)

	assert.Equal(t, "*,items:package_items(*)", gotQuery.Get("select"))
	assert.Equal(t, "created_at.desc", gotQuery.Get("order"))
	assert.Equal(t, "eq.pending", gotQuery.Get("status"))
	assert.Equal(t, "(reference.ilike.*pkg*,receiver_email.ilike.*pkg*)", gotQuery.Get("or"))
	assert.Equal(t, "50", gotQuery.Get("limit"))
}

func TestGetPackageByReferenceNormalizesCase(t *testing.T) {
	var gotRef string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("reference")
		_, _ = w.Write([]byte(`[{"id":"p1","reference":"PKG-001","status":"pending"}]`))
	})

	pkg, err := client.GetPackageByReference(context.Background(), "tok", "pkg-001")
	require.NoError(t, err)
	assert.Equal(t, "eq.PKG-001", gotRef)
	assert.Equal(t, "p1", pkg.ID)
}

func TestSinglePackageNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.GetPackageByID(context.Background(), "tok", "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestQueryRowsErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"permission denied for table packages"}`))
	})

	_, err := client.ListPackages(context.Background(), "tok", model.PackageFilters{})
	require.Error(t, err)
	assert.Equal(t, "permission denied for table packages", err.Error())
}

func TestUpdateStaffProfilePatch(t *testing.T) {
	var gotMethod, gotPrefer string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPrefer = r.Header.Get("Prefer")
		_, _ = w.Write([]byte(`[{"id":"s1","full_name":"New Name","role":"manager","is_active":true}]`))
	})

	profile, err := client.UpdateStaffProfile(context.Background(), "tok", "s1", map[string]interface{}{"full_name": "New Name"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "return=representation", gotPrefer)
	assert.Equal(t, "New Name", profile.FullName)
}

func TestEscapeSearchTerm(t *testing.T) {
	assert.Equal(t, "abc def", escapeSearchTerm("abc,def"))
	assert.Equal(t, "abc", escapeSearchTerm("(abc)*"))
	assert.Equal(t, "plain", escapeSearchTerm("plain"))
}

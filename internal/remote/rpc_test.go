package remote

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPackageLocked(t *testing.T) {
	var gotPath, gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`true`))
	})

	locked, err := client.IsPackageLocked(context.Background(), "tok", "p1")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, "/rest/v1/rpc/is_pod_locked", gotPath)
	assert.JSONEq(t, `{"package_id":"p1"}`, gotBody)
}

func TestGetLockStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isLocked":true,"podReference":"POD-42","pdfUrl":"https://example.com/pod.pdf"}`))
	})

	status, err := client.GetLockStatus(context.Background(), "tok", "p1")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.True(t, status.IsLocked)
	assert.Equal(t, "POD-42", *status.PodReference)
}

func TestGetLockStatusNoRecord(t *testing.T) {
	for _, body := range []string{"null", "[]", "{}", ""} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		status, err := client.GetLockStatus(context.Background(), "tok", "p1")
		require.NoError(t, err)
		assert.Nil(t, status)
	}
}

package directory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushpipe/pkg/directory"
	"github.com/dmitrymomot/pushpipe/pkg/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, Backoff: retry.Fixed{}}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("empty base URL", func(t *testing.T) {
		t.Parallel()

		client, err := directory.NewClient("")
		assert.ErrorIs(t, err, directory.ErrEmptyBaseURL)
		assert.Nil(t, client)
	})

	t.Run("trailing slash is trimmed", func(t *testing.T) {
		t.Parallel()

		var path atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path.Store(r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client, err := directory.NewClient(srv.URL+"/", directory.WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		require.NoError(t, client.DeactivateDevice(context.Background(), "u1", "tok"))
		assert.Equal(t, "/api/users/u1/devices/tok/deactivate", path.Load())
	})
}

func TestClient_DeactivateDevice(t *testing.T) {
	t.Parallel()

	t.Run("success issues a single PUT", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, http.MethodPut, r.Method)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client, err := directory.NewClient(srv.URL, directory.WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		require.NoError(t, client.DeactivateDevice(context.Background(), "u1", "tok"))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("client error settles without retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client, err := directory.NewClient(srv.URL, directory.WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		// The token may already be deactivated; the call is settled, not failed.
		require.NoError(t, client.DeactivateDevice(context.Background(), "u1", "tok"))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("server errors are retried until the budget runs out", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client, err := directory.NewClient(srv.URL, directory.WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		err = client.DeactivateDevice(context.Background(), "u1", "tok")
		assert.ErrorIs(t, err, directory.ErrDeactivationFailed)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("recovers after a transient server error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client, err := directory.NewClient(srv.URL, directory.WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		require.NoError(t, client.DeactivateDevice(context.Background(), "u1", "tok"))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("network failure is retried", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse all connections

		client, err := directory.NewClient(srv.URL, directory.WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		err = client.DeactivateDevice(context.Background(), "u1", "tok")
		assert.ErrorIs(t, err, directory.ErrDeactivationFailed)
	})

	t.Run("token is path-escaped", func(t *testing.T) {
		t.Parallel()

		var path atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path.Store(r.URL.EscapedPath())
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client, err := directory.NewClient(srv.URL, directory.WithRetryPolicy(fastPolicy()))
		require.NoError(t, err)

		endpoint := "https://push.example.com/send/abc"
		require.NoError(t, client.DeactivateDevice(context.Background(), "u1", endpoint))
		assert.Contains(t, path.Load(), "https:%2F%2Fpush.example.com%2Fsend%2Fabc")
	})
}

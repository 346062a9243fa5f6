package itemservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/internal/items/10":
			_, _ = w.Write([]byte(`{"id":10,"ownerId":3,"name":"Drill","available":true}`))
		case "/internal/users/3/items":
			_, _ = w.Write([]byte(`{"itemIds":[10,11]}`))
		case "/internal/users/4/items":
			_, _ = w.Write([]byte(`{"itemIds":null}`))
		case "/internal/items/99", "/internal/users/99/items":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetItem(t *testing.T) {
	client := NewClient(newServer(t).URL, time.Second, nopLogger{})

	item, err := client.GetItem(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.OwnerID)
	assert.True(t, item.Available)

	_, err = client.GetItem(context.Background(), 99)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = client.GetItem(context.Background(), 12)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetItemIDsByOwner(t *testing.T) {
	client := NewClient(newServer(t).URL, time.Second, nopLogger{})

	ids, err := client.GetItemIDsByOwner(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, ids)

	ids, err = client.GetItemIDsByOwner(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = client.GetItemIDsByOwner(context.Background(), 99)
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/rhetoric-frontier/internal"
	"github.com/scythe504/rhetoric-frontier/internal/catalog"
	"github.com/scythe504/rhetoric-frontier/internal/game"
)

type stubDB struct {
	status string
	rounds []internal.RoundRecord
	err    error
	asked  string
}

func (d *stubDB) Health(context.Context) map[string]string {
	return map[string]string{"status": d.status}
}

func (d *stubDB) RecordRound(context.Context, internal.RoundRecord) error { return nil }

func (d *stubDB) RecentRounds(_ context.Context, code string, _ int) ([]internal.RoundRecord, error) {
	d.asked = code
	return d.rounds, d.err
}

func (d *stubDB) Close() {}

func newTestServer(t *testing.T, db *stubDB) http.Handler {
	t.Helper()
	reg := game.NewRegistry(game.DefaultConfig(), catalog.New(nil, nil, nil, nil))
	t.Cleanup(reg.Shutdown)
	if db == nil {
		return New(reg, nil).RegisterRoutes()
	}
	return New(reg, db).RegisterRoutes()
}

func do(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, internal.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp internal.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHealthHandler(t *testing.T) {
	rec, resp := do(t, newTestServer(t, nil), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	data := resp.Data.(map[string]any)
	assert.EqualValues(t, 0, data["rooms"])
	assert.NotContains(t, data, "database")
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	rec, resp := do(t, newTestServer(t, &stubDB{status: "down"}), http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRoomHistoryHandler(t *testing.T) {
	t.Run("archive disabled", func(t *testing.T) {
		rec, resp := do(t, newTestServer(t, nil), http.MethodGet, "/rooms/ABCDE/history")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Round archive is disabled", resp.Data)
	})

	t.Run("empty history", func(t *testing.T) {
		db := &stubDB{status: "up"}
		rec, resp := do(t, newTestServer(t, db), http.MethodGet, "/rooms/abcde/history")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ABCDE", db.asked)
		assert.Equal(t, []any{}, resp.Data)
	})

	t.Run("query failure", func(t *testing.T) {
		db := &stubDB{status: "up", err: errors.New("boom")}
		rec, _ := do(t, newTestServer(t, db), http.MethodGet, "/rooms/ABCDE/history")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	rec, _ := do(t, newTestServer(t, nil), http.MethodOptions, "/health")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adwski/watchparty/backend/model"
	"github.com/adwski/watchparty/backend/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubRooms map[string]*model.RoomView

func (s stubRooms) RoomView(roomID string) (*model.RoomView, error) {
	if roomID == "broken" {
		return nil, errors.New("boom")
	}
	view, ok := s[roomID]
	if !ok {
		return nil, memory.ErrRoomNotFound
	}
	return view, nil
}

func newTestServer() *Server {
	logger := zerolog.Nop()
	return NewServer(Config{
		Logger: &logger,
		RoomService: stubRooms{
			"r1": {ID: "r1", Queue: []string{"b", "c"}, Current: "a", Members: []string{"x"}},
		},
	})
}

func TestServer_GetRoom(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/r1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{
		"message": "OK",
		"data": {"room_id": "r1", "queue": ["b", "c"], "current": "a", "members": ["x"]}
	}`, rec.Body.String())
}

func TestServer_GetRoomErrors(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp GenericResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, memory.ErrRoomNotFound.Error(), resp.Error)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/broken", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "watchparty_connections"))
}

func TestServer_CORS(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	require.Contains(t, []string{"*", "http://localhost:3000"}, rec.Header().Get("Access-Control-Allow-Origin"))
}

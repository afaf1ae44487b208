package relay

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/docsync/internal/auth"
	"github.com/iudanet/docsync/pkg/api"
)

const testSecret = "relay-test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(Config{Secret: testSecret, Version: "test", PeerBuffer: 16}, logger, prometheus.NewRegistry())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dialPeer(t *testing.T, ts *httptest.Server, room uuid.UUID, peer string) *websocket.Conn {
	t.Helper()

	key, err := auth.DeriveRoomKey(testSecret, room)
	require.NoError(t, err)
	token, err := auth.IssueRoomToken(key, room, peer, time.Minute)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/rooms/" + room.String() + "/ws"

	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// readFrame пропускает ping-сообщения и возвращает первый кадр с данными
func readFrame(t *testing.T, ws *websocket.Conn) api.RelayFrame {
	t.Helper()
	for {
		require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := ws.ReadMessage()
		require.NoError(t, err)
		if len(msg) == 0 {
			continue
		}
		frame, err := api.UnmarshalRelayFrame(msg)
		require.NoError(t, err)
		return frame
	}
}

func TestRoomWS_FanOut(t *testing.T) {
	ts := newTestServer(t)
	room := uuid.New()

	a := dialPeer(t, ts, room, "peer-a")
	b := dialPeer(t, ts, room, "peer-b")
	other := dialPeer(t, ts, uuid.New(), "peer-c")

	// ждем регистрации обоих пиров
	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/api/v1/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var health api.HealthResponse
		_ = json.NewDecoder(resp.Body).Decode(&health)
		return health.Peers == 3
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteMessage(websocket.BinaryMessage, []byte("hello")))

	frame := readFrame(t, b)
	assert.Equal(t, "peer-a", frame.PeerID)
	assert.Equal(t, []byte("hello"), frame.Data)

	// другая комната ничего не получает
	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestRoomWS_Unauthorized(t *testing.T) {
	ts := newTestServer(t)
	room := uuid.New()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/rooms/" + room.String() + "/ws"

	tests := []struct {
		name   string
		header http.Header
	}{
		{name: "no header", header: http.Header{}},
		{name: "garbage token", header: http.Header{"Authorization": []string{"Bearer garbage"}}},
		{name: "token for other room", header: func() http.Header {
			otherRoom := uuid.New()
			key, err := auth.DeriveRoomKey(testSecret, otherRoom)
			require.NoError(t, err)
			token, err := auth.IssueRoomToken(key, otherRoom, "p", time.Minute)
			require.NoError(t, err)
			return http.Header{"Authorization": []string{"Bearer " + token}}
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(url, tt.header)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRoomWS_BadRoom(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/rooms/not-a-uuid/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health api.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Zero(t, health.Peers)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "docsync_relay_connected_peers")
}

func TestHub_ReplacePeer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := newHub(logger, newMetrics(prometheus.NewRegistry()))

	first := &peer{id: "p", send: make(chan []byte, 1), closed: make(chan struct{})}
	second := &peer{id: "p", send: make(chan []byte, 1), closed: make(chan struct{})}
	sender := &peer{id: "s", send: make(chan []byte, 1), closed: make(chan struct{})}

	h.join("r", first)
	h.join("r", sender)
	h.join("r", second)

	select {
	case <-first.closed:
	default:
		t.Fatal("replaced peer must be kicked")
	}

	assert.Equal(t, 1, h.broadcast("r", "s", []byte("x")))
	assert.Equal(t, []byte("x"), <-second.send)

	// старое соединение не удаляет новое
	h.leave("r", first)
	rooms, peers := h.stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 2, peers)

	h.leave("r", second)
	h.leave("r", sender)
	rooms, _ = h.stats()
	assert.Zero(t, rooms)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := newHub(logger, newMetrics(prometheus.NewRegistry()))

	slow := &peer{id: "slow", send: make(chan []byte, 1), closed: make(chan struct{})}
	h.join("r", slow)

	assert.Equal(t, 1, h.broadcast("r", "x", []byte("1")))
	assert.Equal(t, 0, h.broadcast("r", "x", []byte("2")))
}

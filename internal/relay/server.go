// Package relay is a minimal websocket pub/sub hub for docsync rooms.
package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/iudanet/docsync/internal/auth"
	"github.com/iudanet/docsync/internal/relay/middleware"
	"github.com/iudanet/docsync/pkg/api"
)

const (
	pingInterval = 10 * time.Second
	readTimeout  = 3 * pingInterval
	writeTimeout = 5 * time.Second
)

// Config holds relay server settings
type Config struct {
	// Secret is the shared secret room keys are derived from
	Secret       string
	Version      string
	RateWindow   time.Duration
	MaxFrameSize int64
	PeerBuffer   int
	RateLimit    int
}

// Server serves room websockets, health and metrics
type Server struct {
	logger   *slog.Logger
	hub      *Hub
	metrics  *metrics
	keys     *xsync.MapOf[uuid.UUID, []byte]
	gatherer prometheus.Gatherer
	limiter  *middleware.RateLimiter
	upgrader websocket.Upgrader
	cfg      Config
}

// New creates a relay server. Metrics are registered in reg.
func New(cfg Config, logger *slog.Logger, reg *prometheus.Registry) *Server {
	if cfg.PeerBuffer < 1 {
		cfg.PeerBuffer = 256
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	m := newMetrics(reg)
	s := &Server{
		logger:   logger,
		hub:      newHub(logger, m),
		metrics:  m,
		keys:     xsync.NewMapOf[uuid.UUID, []byte](),
		gatherer: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		cfg: cfg,
	}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)
	}
	return s
}

// Close stops background work of the server. Open websockets are not touched.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// Handler returns the HTTP handler with logging, recovery and rate limiting applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", s.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	var rooms http.Handler = http.HandlerFunc(s.RoomWS)
	if s.limiter != nil {
		rooms = middleware.RateLimitMiddleware(s.limiter, s.logger)(rooms)
	}
	mux.Handle("GET /api/v1/rooms/{room}/ws", rooms)

	var h http.Handler = mux
	h = middleware.LoggingWithSkip(s.logger, []string{"/api/v1/health", "/metrics"})(h)
	h = middleware.RecoveryMiddleware(s.logger)(h)
	return h
}

// Health обрабатывает GET /api/v1/health
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	rooms, peers := s.hub.stats()
	resp := api.HealthResponse{
		Status:  "ok",
		Version: s.cfg.Version,
		Rooms:   rooms,
		Peers:   peers,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}

// RoomWS обрабатывает GET /api/v1/rooms/{room}/ws
func (s *Server) RoomWS(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(r.PathValue("room"))
	if err != nil {
		s.metrics.rejected.WithLabelValues("bad_room").Inc()
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	claims, status, msg := s.authenticate(r, roomID)
	if claims == nil {
		s.metrics.rejected.WithLabelValues("unauthorized").Inc()
		writeError(w, status, msg)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		s.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	p := &peer{
		send:   make(chan []byte, s.cfg.PeerBuffer),
		closed: make(chan struct{}),
		id:     claims.Peer,
	}
	room := roomID.String()
	s.hub.join(room, p)
	s.logger.Info("Peer joined", "room", room, "peer", p.id)

	go s.writeLoop(ws, p)
	s.readLoop(ws, room, p)

	s.hub.leave(room, p)
	p.kick()
	s.logger.Info("Peer left", "room", room, "peer", p.id)
}

// authenticate validates the bearer token for roomID
func (s *Server) authenticate(r *http.Request, roomID uuid.UUID) (*auth.RoomClaims, int, string) {
	// Ожидаем формат: "Bearer <token>"
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, http.StatusUnauthorized, "missing or malformed bearer token"
	}

	key, err := s.roomKey(roomID)
	if err != nil {
		s.logger.Error("Failed to derive room key", "room", roomID, "error", err)
		return nil, http.StatusInternalServerError, "internal error"
	}

	claims, err := auth.ValidateRoomToken(key, roomID, parts[1])
	if err != nil {
		s.logger.Warn("Invalid room token", "room", roomID, "error", err)
		return nil, http.StatusUnauthorized, "invalid token"
	}
	return claims, 0, ""
}

// roomKey derives (once per room) the token signing key
func (s *Server) roomKey(roomID uuid.UUID) ([]byte, error) {
	if key, ok := s.keys.Load(roomID); ok {
		return key, nil
	}
	key, err := auth.DeriveRoomKey(s.cfg.Secret, roomID)
	if err != nil {
		return nil, err
	}
	s.keys.Store(roomID, key)
	return key, nil
}

func (s *Server) readLoop(ws *websocket.Conn, room string, p *peer) {
	if s.cfg.MaxFrameSize > 0 {
		ws.SetReadLimit(s.cfg.MaxFrameSize)
	}

	for {
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		messageType, message, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Peer read failed", "room", room, "peer", p.id, "error", err)
			}
			return
		}
		// пустое бинарное сообщение - ping
		if messageType != websocket.BinaryMessage || len(message) == 0 {
			continue
		}

		s.metrics.frames.Inc()
		s.metrics.frameSize.Observe(float64(len(message)))

		frame := api.RelayFrame{PeerID: p.id, Data: message}.Marshal()
		s.hub.broadcast(room, p.id, frame)
	}
}

func (s *Server) writeLoop(ws *websocket.Conn, p *peer) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		var message []byte
		select {
		case <-p.closed:
			_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message = <-p.send:
		case <-ticker.C:
			message = []byte{}
		}

		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.BinaryMessage, message); err != nil {
			s.logger.Debug("Peer write failed", "peer", p.id, "error", err)
			return
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: http.StatusText(status), Message: msg})
}

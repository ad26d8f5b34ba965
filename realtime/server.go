package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/madebyaram2024/PPC-CRM-sub000/config"
	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// Server owns the realtime subsystem: the registry, the room manager, the
// event router and the websocket upgrade endpoint. One instance lives for
// the process lifetime.
type Server struct {
	cfg      *config.Config
	registry *Registry
	rooms    *RoomManager
	router   *Router
	notifier *Notifier
	upgrader websocket.Upgrader
	logger   *utils.Logger
}

func NewServer(cfg *config.Config, logger *utils.Logger) *Server {
	registry := NewRegistry()
	rooms := NewRoomManager(logger)

	return &Server{
		cfg:      cfg,
		registry: registry,
		rooms:    rooms,
		router:   NewRouter(registry, rooms, logger),
		notifier: NewNotifier(rooms, logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Session auth happens in middleware before the upgrade; the
			// browser enforces same-origin credentials on the cookie/token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Notifier returns the injection handle CRUD handlers use to push domain
// notifications.
func (s *Server) Notifier() *Notifier {
	return s.notifier
}

// Registry exposes the connection registry for presence snapshots.
func (s *Server) Registry() *Registry {
	return s.registry
}

// SetOfflineHook forwards to the router; see Router.SetOfflineHook.
func (s *Server) SetOfflineHook(hook func(identity Identity)) {
	s.router.SetOfflineHook(hook)
}

// HandleSocket upgrades the request mounted at /api/socketio and starts the
// connection's read and write pumps.
func (s *Server) HandleSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := newClient(
		uuid.NewString(),
		conn,
		s.logger,
		s.cfg.SendBufferSize,
		s.cfg.PingInterval,
		s.cfg.PongTimeout,
		s.cfg.WriteTimeout,
	)

	s.logger.Debug("Connection established", "connection", client.ID(), "remote", conn.RemoteAddr().String())

	go client.writePump()
	s.router.HandleConnect(client)
	go client.readPump(s.router)
}

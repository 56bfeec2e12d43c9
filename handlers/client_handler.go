package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"digdug/server/game"
	"digdug/server/messages"
	"digdug/server/network"
	"digdug/server/services"
)

var log = logrus.WithField("logger", "handlers")

// Role is what a connection came for
type Role string

const (
	RolePlayer Role = "player"
	RoleViewer Role = "viewer"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	role          Role
	playerService *services.PlayerService
	matchService  *services.MatchService
	clientManager *ClientManager
	joined        bool
}

// HandleClientConnection serves one connection until it closes
func HandleClientConnection(wsConn *websocket.Conn, role Role, playerService *services.PlayerService, matchService *services.MatchService, clientManager *ClientManager) {
	conn := network.NewConnection(wsConn)
	log.WithFields(logrus.Fields{"conn": conn.ID(), "role": role}).Infof("New connection from %s", conn.RemoteAddr())

	handler := &ClientHandler{
		conn:          conn,
		role:          role,
		playerService: playerService,
		matchService:  matchService,
		clientManager: clientManager,
	}

	// Start the write pump in a goroutine
	go conn.WritePump()

	// Handle the read pump in the current goroutine
	conn.ReadPump(handler)

	if role == RoleViewer {
		clientManager.RemoveClient(conn.ID())
	}
	log.WithField("conn", conn.ID()).Info("Connection closed")
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var msg messages.InboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.WithError(err).WithField("conn", conn.ID()).Debug("Error unmarshaling message")
		h.sendError(messages.CodeBadMessage, "message is not valid JSON")
		return
	}

	switch msg.Type {
	case messages.MessageTypeJoin:
		h.handleJoin(msg.Payload)
	case messages.MessageTypeKey:
		h.handleKey(msg.Payload)
	default:
		log.WithField("conn", conn.ID()).Debugf("Unknown message type: %s", msg.Type)
		h.sendError(messages.CodeUnknownType, "Unknown message type received")
	}
}

func (h *ClientHandler) handleJoin(payload json.RawMessage) {
	if h.joined {
		h.sendError(messages.CodeAlreadyJoined, "already joined")
		return
	}

	var join messages.JoinMessage
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &join); err != nil {
			h.sendError(messages.CodeBadMessage, "join payload is malformed")
			return
		}
	}

	switch h.role {
	case RolePlayer:
		if join.Name == "" {
			h.sendError(messages.CodeNameRequired, "a player name is required")
			return
		}
		h.joined = true
		h.playerService.Enqueue(&services.Player{Name: join.Name, Conn: h.conn})
		log.WithField("conn", h.conn.ID()).Infof("<%s> joined, %d waiting", join.Name, h.playerService.Waiting())
	case RoleViewer:
		h.joined = h.clientManager.AddClient(h.conn)
		if info := h.matchService.CurrentInfo(); info != nil {
			h.conn.SendMessage(messages.NewInfo(info))
		}
		log.WithField("conn", h.conn.ID()).Infof("Viewer joined, %d watching", h.clientManager.Count())
	}
}

func (h *ClientHandler) handleKey(payload json.RawMessage) {
	var key messages.KeyMessage
	if err := json.Unmarshal(payload, &key); err != nil {
		h.sendError(messages.CodeBadMessage, "key payload is malformed")
		return
	}

	err := h.matchService.Keypress(h.conn, key.Key)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNotPlaying):
		h.sendError(messages.CodeNotPlaying, err.Error())
	case errors.Is(err, game.ErrInvalidKey):
		h.sendError(messages.CodeInvalidKey, err.Error())
	default:
		h.sendError(messages.CodeBadMessage, err.Error())
	}
}

func (h *ClientHandler) sendError(code, message string) {
	if err := h.conn.SendMessage(messages.NewError(code, message)); err != nil {
		log.WithError(err).WithField("conn", h.conn.ID()).Debug("Error sending error")
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewRouter serves players on /player and viewers on /viewer
func NewRouter(playerService *services.PlayerService, matchService *services.MatchService, clientManager *ClientManager) *http.ServeMux {
	mux := http.NewServeMux()
	for path, role := range map[string]Role{"/player": RolePlayer, "/viewer": RoleViewer} {
		role := role
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				log.WithError(err).Warn("Failed to upgrade connection")
				return
			}
			HandleClientConnection(conn, role, playerService, matchService, clientManager)
		})
	}
	return mux
}

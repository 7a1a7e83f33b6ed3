package utils

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNoConnection is returned when the user has no live websocket connection.
var ErrNoConnection = errors.New("no websocket connection for user")

// Notifier manages active WebSocket connections and pushes notifications to
// them. Delivery is best effort; callers treat failures as log-only.
type Notifier struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*websocket.Conn
}

// DefaultNotifier is the package-level notifier instance.
var DefaultNotifier = NewNotifier()

func NewNotifier() *Notifier {
	return &Notifier{
		conns: make(map[uuid.UUID]*websocket.Conn),
	}
}

// Register registers a websocket connection for a user, replacing any
// previous connection.
func (n *Notifier) Register(userID uuid.UUID, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if prev, ok := n.conns[userID]; ok && prev != conn {
		_ = prev.Close()
	}
	n.conns[userID] = conn
	logrus.WithFields(logrus.Fields{"event": "ws_register", "user": userID, "total_connections": len(n.conns)}).Info("websocket registered")
}

// Unregister removes the websocket connection for a user.
func (n *Notifier) Unregister(userID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if conn, ok := n.conns[userID]; ok {
		_ = conn.Close()
		delete(n.conns, userID)
	}
	logrus.WithFields(logrus.Fields{"event": "ws_unregister", "user": userID, "total_connections": len(n.conns)}).Info("websocket unregistered")
}

// Send pushes a JSON-serializable payload to the user's websocket connection.
func (n *Notifier) Send(userID uuid.UUID, payload interface{}) error {
	n.mu.RLock()
	conn, ok := n.conns[userID]
	n.mu.RUnlock()
	if !ok || conn == nil {
		return ErrNoConnection
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		logrus.WithFields(logrus.Fields{"event": "notify_write_failed", "user": userID, "error": err}).Warn("websocket write failed")
		return err
	}
	return nil
}

// ActiveUserIDs returns a snapshot of currently connected user IDs.
func (n *Notifier) ActiveUserIDs() []uuid.UUID {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(n.conns))
	for id := range n.conns {
		out = append(out, id)
	}
	return out
}

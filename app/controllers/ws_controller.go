package controllers

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakasatria/skillswap-backend/pkg/utils"
)

// WsHandler registers the connection with the notifier so the server can
// push notifications and messages to this user. The frontend passes its JWT
// as a token query param.
func WsHandler(c *websocket.Conn) {
	token := c.Query("token")
	var userID uuid.UUID
	if token != "" {
		userID, _ = utils.ExtractUserIDFromHeader("Bearer " + token)
	}
	if userID == uuid.Nil {
		_ = c.Close()
		return
	}

	utils.DefaultNotifier.Register(userID, c)
	logrus.WithFields(logrus.Fields{"event": "ws_connected", "user": userID}).Info("websocket connected")

	// read loop only to detect close
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	utils.DefaultNotifier.Unregister(userID)
	logrus.WithFields(logrus.Fields{"event": "ws_disconnected", "user": userID}).Info("websocket disconnected")
}

package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakasatria/skillswap-backend/app/models"
	"github.com/rakasatria/skillswap-backend/app/queries"
	"github.com/rakasatria/skillswap-backend/pkg/database"
	"github.com/rakasatria/skillswap-backend/pkg/utils"
)

func SendMessage(c *fiber.Ctx) error {
	senderID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	p := &models.SendMessageRequest{}
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := validate.Struct(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	receiverID, err := uuid.Parse(p.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid receiver_id"})
	}

	msg := &models.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    p.Content,
		CreatedAt:  time.Now(),
	}

	messageQueries := queries.MessageQueries{DB: database.DB}
	if err := messageQueries.CreateMessage(msg); err != nil {
		return respondError(c, err)
	}

	view, err := messageQueries.GetMessageByID(msg.ID)
	if err != nil {
		return respondError(c, err)
	}

	// Push the message and a notification to the receiver; delivery failures
	// never fail the send.
	if err := utils.DefaultNotifier.Send(receiverID, fiber.Map{"event": models.NotifyNewMessage, "message": view}); err != nil {
		logrus.WithFields(logrus.Fields{"event": "message_push_skipped", "receiver": receiverID, "error": err}).Info("receiver offline")
	}
	_ = utils.DefaultNotifier.Send(receiverID, models.Notification{
		Kind:      models.NotifyNewMessage,
		Message:   fmt.Sprintf("You have a new message from %s", view.SenderName),
		Timestamp: time.Now(),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Message sent successfully", "data": view})
}

func GetMyMessages(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	messageQueries := queries.MessageQueries{DB: database.DB}
	msgs, err := messageQueries.GetMessagesForUser(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(msgs)
}

func GetConversation(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromHeader(c.Get("Authorization"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	otherID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	messageQueries := queries.MessageQueries{DB: database.DB}
	msgs, err := messageQueries.GetConversation(userID, otherID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(msgs)
}

// Package handlers implements the HTTP endpoints of the messenger backend.
// This file serves the messages endpoint: a group's chronological history
// and the append-only send operation.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jonesmarquelle/messenger/internal/metrics"
	"github.com/jonesmarquelle/messenger/internal/models"
	"github.com/jonesmarquelle/messenger/internal/repository"
	"github.com/jonesmarquelle/messenger/internal/security"
)

// MessagesHandler serves GET and PUT /api/messages.
type MessagesHandler struct {
	messageRepo *repository.MessageRepository
	logger      *security.Logger
}

// NewMessagesHandler creates a MessagesHandler with its repository dependency.
func NewMessagesHandler(messageRepo *repository.MessageRepository, logger *security.Logger) *MessagesHandler {
	return &MessagesHandler{
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// Get serves GET /api/messages?groupId=<id>: the group's full history in
// per-group sequence order with senders populated. An empty history is a
// 200 with an empty array; only a missing group is a 404.
func (h *MessagesHandler) Get(c *fiber.Ctx) error {
	groupID := c.QueryInt("groupId")
	if groupID == 0 {
		return respondError(c, h.logger, &ValidationError{Missing: []string{"groupId"}})
	}

	messages, err := h.messageRepo.ListByGroup(c.Context(), groupID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(messages)
}

// Put serves PUT /api/messages?groupId=<id> with action createMessage, the
// only message mutation. Validation happens before the write; the response
// carries the created message with its assigned sequence number.
func (h *MessagesHandler) Put(c *fiber.Ctx) error {
	parsed, err := parseMessageAction(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	req, ok := parsed.(CreateMessageRequest)
	if !ok {
		return respondError(c, h.logger, ErrInvalidAction)
	}

	message := &models.Message{
		GroupID: req.GroupID,
		UserID:  req.SenderID,
		Body:    req.Body,
	}

	if err := h.messageRepo.Create(c.Context(), message); err != nil {
		return respondError(c, h.logger, err)
	}

	metrics.MessagesCreated.Inc()

	return c.JSON(message)
}

package handlers

import (
	"net/http"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/services/messaging"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

var messageErrors = []errorMapping{
	{messaging.ErrReceiverRequired, http.StatusBadRequest},
	{messaging.ErrEmptyContent, http.StatusBadRequest},
	{messaging.ErrSelfMessage, http.StatusBadRequest},
	{messaging.ErrReceiverNotFound, http.StatusNotFound},
	{messaging.ErrNotFound, http.StatusNotFound},
	{messaging.ErrForbidden, http.StatusForbidden},
}

func (h *Handler) ListMessages(c *gin.Context) {
	msgs, err := h.messages.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.serverError(c, err)
		return
	}

	views := make([]gin.H, 0, len(msgs))
	for i := range msgs {
		views = append(views, messageView(&msgs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"messages": views})
}

func (h *Handler) SendMessage(c *gin.Context) {
	var input models.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, err)
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), currentUser(c), messaging.SendRequest{
		ReceiverID: utils.StringToUint64(input.ReceiverID),
		DoctorID:   utils.StringToUint64(input.DoctorID),
		Content:    input.Content,
	})
	if err != nil {
		h.respondError(c, err, messageErrors...)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Message sent successfully", messageView(msg))
}

func (h *Handler) ListConversations(c *gin.Context) {
	convs, err := h.messages.Conversations(c.Request.Context(), currentUser(c))
	if err != nil {
		h.serverError(c, err)
		return
	}

	views := make([]gin.H, 0, len(convs))
	for i := range convs {
		views = append(views, conversationView(&convs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"conversations": views})
}

func (h *Handler) MarkMessageRead(c *gin.Context) {
	msg, err := h.messages.MarkRead(c.Request.Context(), currentUser(c), paramID(c, "id"))
	if err != nil {
		h.respondError(c, err, messageErrors...)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Message marked as read", gin.H{
		"_id":    utils.FormatID(msg.ID),
		"isRead": msg.IsRead,
	})
}

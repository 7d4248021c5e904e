package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"prochatbot/model"
	"prochatbot/service"
)

// ChatController exposes the conversation endpoints.
type ChatController struct {
	chat   *service.ChatService
	logger *logrus.Logger
}

func NewChatController(chat *service.ChatService, logger *logrus.Logger) *ChatController {
	return &ChatController{chat: chat, logger: logger}
}

// Chat handles POST /chat.
func (ctrl *ChatController) Chat(c *gin.Context) {
	var input struct {
		OwnerID        uint   `json:"owner_id"`
		ConversationID string `json:"conversation_id"`
		Message        string `json:"message"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		ctrl.logger.Warnf("[%s] Invalid input, %s", c.GetString("requestId"), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id and message required"})
		return
	}

	conversationID, reply, err := ctrl.chat.Chat(c.Request.Context(), input.OwnerID, input.ConversationID, input.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id and message required"})
			return
		}
		ctrl.logger.Warnf("[%s] Chat failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"reply":           reply,
	})
}

// ListByOwner handles GET /conversations/owner/:owner_id.
func (ctrl *ChatController) ListByOwner(c *gin.Context) {
	ownerID, ok := uintParam(c, "owner_id")
	if !ok {
		return
	}

	summaries, err := ctrl.chat.ListConversations(c.Request.Context(), ownerID)
	if err != nil {
		ctrl.logger.Warnf("[%s] List conversations failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// Get handles GET /conversations/:id.
func (ctrl *ChatController) Get(c *gin.Context) {
	conv, err := ctrl.chat.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		ctrl.logger.Warnf("[%s] Get conversation failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, conv)
}

// Delete handles DELETE /conversations/:id.
func (ctrl *ChatController) Delete(c *gin.Context) {
	err := ctrl.chat.DeleteConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		ctrl.logger.Warnf("[%s] Delete conversation failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Conversation deleted"})
}

// UpdateTitle handles PUT /conversations/:id/title.
func (ctrl *ChatController) UpdateTitle(c *gin.Context) {
	var input struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title required"})
		return
	}

	err := ctrl.chat.RenameConversation(c.Request.Context(), c.Param("id"), input.Title)
	if err != nil {
		if errors.Is(err, model.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		ctrl.logger.Warnf("[%s] Update title failed: %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Title updated"})
}

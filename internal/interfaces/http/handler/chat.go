package handler

import (
	"github.com/adisyon/backend/internal/application/chat"
	"github.com/gin-gonic/gin"
)

// ChatHandler serves the conversational order intake
type ChatHandler struct {
	BaseHandler
	chat *chat.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chat: chatService}
}

// RegisterRoutes registers chat routes
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/chat")
	group.POST("/messages", h.Message)
}

// Message handles a single guest utterance for a table.
// A turn either materializes an order, opens a variation clarification,
// or reports what could not be matched.
func (h *ChatHandler) Message(c *gin.Context) {
	branchID, err := getBranchID(c)
	if err != nil {
		h.BadRequest(c, "X-Branch-ID header is required")
		return
	}

	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.chat.Chat(c.Request.Context(), branchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

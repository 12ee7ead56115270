package chat

import (
	"fmt"
	"net/http"
	"time"

	"helix/api/contexts"
	"helix/api/models/dtos"
	"helix/api/models/dtos/errors"

	"github.com/labstack/echo"
)

// ChatMessage consumes exactly one inbound chat message for
// the conversation identified by the mandated conversationId
// and returns the engine's replies.
func ChatMessage(c echo.Context) error {
	fmt.Printf("[%s] - ChatMessage hit!\n", time.Now())

	cc := c.(*contexts.ChatContext)

	var requestDto dtos.ChatMessageRequestDto
	if bindErr := c.Bind(&requestDto); bindErr != nil {
		return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Malformed chat message body; expected {\"content\": \"...\"}"))
	}

	session := cc.SessionRegistry.Obtain(cc.ConversationId)
	replies := cc.Engine.HandleMessage(c.Request().Context(), session, requestDto.Content)

	return c.JSON(http.StatusOK, dtos.ChatMessageResponseDto{
		Status:         http.StatusOK,
		ConversationId: cc.ConversationId.String(),
		Replies:        replies,
	})
}

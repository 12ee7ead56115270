package middleware

import (
	"net/http"

	"helix/api/contexts"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid `conversationId` was provided,
	either as an HTTP query parameter or as an X-Conversation-Id header
*/
func MandateConversationIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cc := c.(*contexts.ChatContext)

		conversationQP := c.QueryParam("conversationId")
		if len(conversationQP) == 0 {
			conversationQP = c.Request().Header.Get("X-Conversation-Id")
		}

		if len(conversationQP) == 0 {
			// if no id was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'conversationId' query parameter or 'X-Conversation-Id' header!")
		}

		// verify:
		conversationId, parseErr := uuid.Parse(conversationQP)
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error converting 'conversationId' to a UUID! Check your input")
		}

		cc.ConversationId = conversationId

		return next(cc)
	}
}

package contexts

import (
	"helix/api/models"
	"helix/api/services/chat"
	"helix/api/services/sessions"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  the chat engine and other variables
	ChatContext struct {
		echo.Context
		Config          *models.Config
		Es7Client       *es7.Client
		SessionRegistry *sessions.Registry
		Engine          *chat.Engine

		// set by the conversation middleware
		ConversationId uuid.UUID
	}
)

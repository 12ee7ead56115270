package command

import (
	"helix/api/models/constants"
	"strings"
)

const (
	Unrecognized constants.CommandVerb = "Unrecognized"

	Predict  constants.CommandVerb = "predict"
	Score    constants.CommandVerb = "score"
	Setup    constants.CommandVerb = "setup"
	Status   constants.CommandVerb = "status"
	Help     constants.CommandVerb = "help"
	Examples constants.CommandVerb = "examples"
	Batch    constants.CommandVerb = "batch"
	Advanced constants.CommandVerb = "advanced"
	Cancel   constants.CommandVerb = "cancel"
)

const (
	ActionPredict constants.RequestAction = "predict"
	ActionScore   constants.RequestAction = "score"
)

func CastToCommandVerb(text string) constants.CommandVerb {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "predict":
		return Predict
	case "score":
		return Score
	case "setup":
		return Setup
	case "status":
		return Status
	case "help":
		return Help
	case "examples":
		return Examples
	case "batch":
		return Batch
	case "advanced":
		return Advanced
	case "cancel":
		return Cancel
	default:
		return Unrecognized
	}
}

// Informational verbs are side-effect only : they
// never consume or transition pending session state
func IsInformational(verb constants.CommandVerb) bool {
	switch verb {
	case Status, Help, Examples:
		return true
	}
	return false
}

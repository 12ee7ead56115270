package organism

import (
	"helix/api/models/constants"
	"strings"
)

const (
	Unknown constants.Organism = "Unknown"

	Human constants.Organism = "Human"
	Mouse constants.Organism = "Mouse"
)

func CastToOrganism(text string) constants.Organism {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "human", "h", "homo sapiens":
		return Human
	case "mouse", "m", "mus musculus":
		return Mouse
	default:
		return Unknown
	}
}

func IsKnownOrganism(text string) bool {
	// attempt to cast to organism and
	// return if unknown organism
	return CastToOrganism(text) != Unknown
}

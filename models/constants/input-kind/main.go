package inputKind

import (
	"helix/api/models/constants"
	"strings"
)

const (
	Unknown constants.InputKind = "Unknown"

	Sequence constants.InputKind = "Sequence"
	Interval constants.InputKind = "Interval"
	Variant  constants.InputKind = "Variant"
)

func CastToInputKind(text string) constants.InputKind {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "sequence":
		return Sequence
	case "interval":
		return Interval
	case "variant":
		return Variant
	default:
		return Unknown
	}
}

func IsKnownInputKind(text string) bool {
	return CastToInputKind(text) != Unknown
}

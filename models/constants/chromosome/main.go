package chromosome

import (
	"fmt"
	"strconv"
	"strings"
)

func ValidListOfHumanChromosomes() []string {
	var humChroms []string
	for i := 1; i < 23; i++ {
		humChroms = append(humChroms, fmt.Sprint(i))
	}
	humChroms = append(humChroms, "X")
	humChroms = append(humChroms, "Y")
	humChroms = append(humChroms, "M")
	return humChroms
}

func IsRecognizedChromosome(text string) bool {
	bare := strings.TrimPrefix(strings.ToLower(text), "chr")

	// Check if number can be represented as an int and is non-zero
	chromNumber, _ := strconv.Atoi(bare)
	if chromNumber > 0 {
		// It can..
		// Check if it is in range 1-22
		if chromNumber < 23 {
			return true
		}
	} else {
		// No it can't..
		// Check if it is an X, Y..
		switch bare {
		case "x":
			return true
		case "y":
			return true
		}

		// ..or M (MT)
		switch bare {
		case "m", "mt":
			return true
		}
	}

	return false
}

// Normalize maps recognized chromosome names onto their
// canonical "chr*" form (chr22, chrX, chrM, ..) and leaves
// unrecognized tokens untouched.
func Normalize(text string) string {
	trimmed := strings.TrimSpace(text)
	if !IsRecognizedChromosome(trimmed) {
		return trimmed
	}

	bare := strings.TrimPrefix(strings.ToLower(trimmed), "chr")
	switch bare {
	case "x", "y":
		return "chr" + strings.ToUpper(bare)
	case "m", "mt":
		return "chrM"
	default:
		return "chr" + bare
	}
}

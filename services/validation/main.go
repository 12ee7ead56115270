package validation

import (
	"fmt"
	"strconv"
	"strings"

	"helix/api/models/constants"
	"helix/api/models/constants/chromosome"
	inputKind "helix/api/models/constants/input-kind"
	"helix/api/models/genomic"
)

type Rule string

const (
	UnrecognizedFormat Rule = "UnrecognizedFormat"

	InvalidAlphabet Rule = "InvalidAlphabet"
	TooShort        Rule = "TooShort"
	TooLong         Rule = "TooLong"

	MalformedCoordinates Rule = "MalformedCoordinates"
	InvertedRange        Rule = "InvertedRange"
	IntervalTooSmall     Rule = "IntervalTooSmall"
	IntervalTooLarge     Rule = "IntervalTooLarge"

	MalformedVariant Rule = "MalformedVariant"
	InvalidAllele    Rule = "InvalidAllele"
	NoOpVariant      Rule = "NoOpVariant"
)

// Error is a typed validation failure : the rule violated,
// the offending substring, and a user-facing message.
// Validation never panics on malformed input.
type Error struct {
	Rule      Rule   `json:"rule"`
	Offending string `json:"offending"`
	Message   string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func newError(rule Rule, offending string, format string, args ...interface{}) *Error {
	return &Error{
		Rule:      rule,
		Offending: offending,
		Message:   fmt.Sprintf(format, args...),
	}
}

// ClassifyAndValidate determines which input grammar a raw
// string belongs to and bounds-checks it. Classification
// priority is fixed : variant, then interval, then sequence.
// Swapping the order changes acceptance for crafted
// ambiguous strings, so preserve it.
func ClassifyAndValidate(raw string) (genomic.Input, *Error) {
	trimmed := strings.TrimSpace(raw)

	switch Classify(trimmed) {
	case inputKind.Variant:
		return ValidateVariant(trimmed)
	case inputKind.Interval:
		return ValidateInterval(trimmed)
	case inputKind.Sequence:
		return ValidateSequence(trimmed)
	default:
		return nil, newError(UnrecognizedFormat, trimmed,
			"Unrecognized input format. Use a DNA sequence, chr:start-end, or chr:pos:ref>alt")
	}
}

// Classify only decides which grammar applies; it does not
// bounds-check. First match wins.
func Classify(raw string) constants.InputKind {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return inputKind.Unknown
	}

	// chromosome:position:ref>alt
	if strings.Count(trimmed, ":") >= 2 && strings.Count(trimmed, ">") == 1 {
		return inputKind.Variant
	}

	// chromosome:start-end
	if strings.Contains(trimmed, ":") && strings.Contains(trimmed, "-") {
		return inputKind.Interval
	}

	// bare base string
	if isAlphabetOnly(trimmed) {
		return inputKind.Sequence
	}

	return inputKind.Unknown
}

func ValidateSequence(raw string) (genomic.Input, *Error) {
	// tolerate pasted whitespace and line breaks
	bases := strings.ToUpper(strings.Join(strings.Fields(raw), ""))

	if bases == "" {
		return nil, newError(InvalidAlphabet, raw, "Sequence cannot be empty")
	}

	if bad := firstInvalidBase(bases); bad != "" {
		return nil, newError(InvalidAlphabet, bad,
			"Invalid character '%s' in sequence. Only A, C, G, T, N allowed", bad)
	}

	if len(bases) < genomic.MinSequenceLength {
		return nil, newError(TooShort, bases,
			"Sequence too short (%d bp). Minimum %d base pairs required", len(bases), genomic.MinSequenceLength)
	}

	if len(bases) > genomic.MaxSequenceLength {
		return nil, newError(TooLong, fmt.Sprintf("%s...", bases[:20]),
			"Sequence too long (%d bp). Maximum %d base pairs allowed", len(bases), genomic.MaxSequenceLength)
	}

	return genomic.SequenceInput{Bases: bases}, nil
}

func ValidateInterval(raw string) (genomic.Input, *Error) {
	trimmed := strings.TrimSpace(raw)

	colonParts := strings.SplitN(trimmed, ":", 2)
	if len(colonParts) != 2 {
		return nil, newError(MalformedCoordinates, trimmed,
			"Invalid interval format. Use: chr:start-end (e.g. chr22:1000-2000)")
	}

	chrom := chromosome.Normalize(colonParts[0])
	if chrom == "" {
		return nil, newError(MalformedCoordinates, trimmed, "Chromosome cannot be empty")
	}

	posParts := strings.SplitN(colonParts[1], "-", 2)
	if len(posParts) != 2 {
		return nil, newError(MalformedCoordinates, colonParts[1],
			"Invalid interval format. Missing '-' between start and end positions")
	}

	start, startErr := parseCoordinate(posParts[0])
	end, endErr := parseCoordinate(posParts[1])
	if startErr != nil || endErr != nil || start < 0 || end < 0 {
		return nil, newError(MalformedCoordinates, colonParts[1],
			"Invalid coordinates '%s'. Start and end must be non-negative integers", colonParts[1])
	}

	if start >= end {
		return nil, newError(InvertedRange, colonParts[1],
			"End position (%d) must be greater than start position (%d)", end, start)
	}

	size := end - start
	if size < genomic.MinIntervalSize {
		return nil, newError(IntervalTooSmall, colonParts[1],
			"Interval too small (%d bp). Minimum %d base pairs required", size, genomic.MinIntervalSize)
	}
	if size > genomic.MaxIntervalSize {
		return nil, newError(IntervalTooLarge, colonParts[1],
			"Interval too large (%d bp). Maximum %d base pairs allowed", size, genomic.MaxIntervalSize)
	}

	return genomic.IntervalInput{Chromosome: chrom, Start: start, End: end}, nil
}

func ValidateVariant(raw string) (genomic.Input, *Error) {
	trimmed := strings.TrimSpace(raw)

	parts := strings.SplitN(trimmed, ":", 3)
	if len(parts) != 3 {
		return nil, newError(MalformedVariant, trimmed,
			"Invalid variant format. Use: chr:pos:ref>alt (e.g. chr22:1000:A>T)")
	}

	chrom := chromosome.Normalize(parts[0])
	if chrom == "" {
		return nil, newError(MalformedVariant, trimmed, "Chromosome cannot be empty")
	}

	position, posErr := parseCoordinate(parts[1])
	if posErr != nil {
		return nil, newError(MalformedVariant, parts[1],
			"Invalid position '%s'. Must be a positive integer", strings.TrimSpace(parts[1]))
	}
	if position < 1 {
		return nil, newError(MalformedVariant, parts[1],
			"Position must be positive (1-based coordinate system)")
	}

	alleleParts := strings.SplitN(parts[2], ">", 2)
	if len(alleleParts) != 2 {
		return nil, newError(MalformedVariant, parts[2],
			"Invalid allele format. Use: ref>alt (e.g. A>T)")
	}

	ref := strings.ToUpper(strings.TrimSpace(alleleParts[0]))
	alt := strings.ToUpper(strings.TrimSpace(alleleParts[1]))

	if ref == "" {
		return nil, newError(InvalidAllele, parts[2], "Reference allele cannot be empty")
	}
	if alt == "" {
		return nil, newError(InvalidAllele, parts[2], "Alternate allele cannot be empty")
	}

	if bad := firstInvalidBase(ref); bad != "" {
		return nil, newError(InvalidAllele, ref,
			"Invalid character '%s' in reference allele. Only A, C, G, T, N allowed", bad)
	}
	if bad := firstInvalidBase(alt); bad != "" {
		return nil, newError(InvalidAllele, alt,
			"Invalid character '%s' in alternate allele. Only A, C, G, T, N allowed", bad)
	}

	if ref == alt {
		return nil, newError(NoOpVariant, parts[2],
			"Reference and alternate alleles are identical (%s>%s); nothing to predict", ref, alt)
	}

	return genomic.VariantInput{
		Chromosome: chrom,
		Position:   position,
		Reference:  ref,
		Alternate:  alt,
	}, nil
}

// ValidateDeclared runs the grammar the user declared so the
// failure message matches their intent; declared intent never
// widens acceptance, only narrows the error report.
func ValidateDeclared(kind constants.InputKind, raw string) (genomic.Input, *Error) {
	switch kind {
	case inputKind.Sequence:
		return ValidateSequence(raw)
	case inputKind.Interval:
		return ValidateInterval(raw)
	case inputKind.Variant:
		return ValidateVariant(raw)
	default:
		return ClassifyAndValidate(raw)
	}
}

func isAlphabetOnly(text string) bool {
	for _, r := range strings.ToUpper(text) {
		switch r {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}

func firstInvalidBase(bases string) string {
	for _, r := range bases {
		switch r {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return string(r)
		}
	}
	return ""
}

// parseCoordinate tolerates comma separated thousands
// (chr22:35,677,410-36,725,986)
func parseCoordinate(text string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	return strconv.Atoi(cleaned)
}

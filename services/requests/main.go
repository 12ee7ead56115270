package requests

import (
	"fmt"
	"regexp"
	"strings"

	"helix/api/models/constants"
	"helix/api/models/constants/organism"
	outputType "helix/api/models/constants/output-type"
	"helix/api/models/genomic"

	. "github.com/ahmetb/go-linq"
	"github.com/google/uuid"
)

const MaxOntologyTerms = 10

var ontologyTermPattern = regexp.MustCompile(`(?i)^(UBERON|CL|GO|SO|CHEBI|MONDO):[0-9]{7,}$`)

// BuildRequest assembles a validated input and a set of
// already-checked options into an immutable request; pure
// and total over well-typed arguments.
func BuildRequest(input genomic.Input, options genomic.RequestOptions, action constants.RequestAction) genomic.PredictionRequest {
	return genomic.PredictionRequest{
		Id:      uuid.New(),
		Action:  action,
		Input:   input,
		Options: options,
	}
}

// ParseOrganism interprets an advanced-flow answer; an empty
// answer keeps the default.
func ParseOrganism(text string, fallback constants.Organism) (constants.Organism, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallback, nil
	}

	if !organism.IsKnownOrganism(trimmed) {
		return fallback, fmt.Errorf("unknown organism '%s'; use 'human' or 'mouse'", trimmed)
	}
	return organism.CastToOrganism(trimmed), nil
}

// ParseOutputTypes interprets a comma separated list of
// output kinds, or 'all'; an empty answer keeps the default.
// The returned set is deduplicated, order-preserved.
func ParseOutputTypes(text string, fallback []constants.OutputType) ([]constants.OutputType, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallback, nil
	}
	if strings.EqualFold(trimmed, "all") {
		return outputType.All(), nil
	}

	tokens := strings.Split(trimmed, ",")

	var unknown []string
	From(tokens).
		Where(func(t interface{}) bool {
			return !outputType.IsKnownOutputType(t.(string))
		}).
		Select(func(t interface{}) interface{} {
			return strings.TrimSpace(t.(string))
		}).
		ToSlice(&unknown)
	if len(unknown) > 0 {
		return fallback, fmt.Errorf("unknown output type(s): %s", strings.Join(unknown, ", "))
	}

	var selected []constants.OutputType
	From(tokens).
		Select(func(t interface{}) interface{} {
			return outputType.CastToOutputType(t.(string))
		}).
		Distinct().
		ToSlice(&selected)

	return selected, nil
}

// ParseOntologyTerms interprets a comma separated list of
// ontology identifiers (UBERON:0001157, CL:0000236, ..);
// empty means unfiltered.
func ParseOntologyTerms(text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, "skip") || strings.EqualFold(trimmed, "none") {
		return []string{}, nil
	}

	terms := []string{}
	for _, token := range strings.Split(trimmed, ",") {
		term := strings.ToUpper(strings.TrimSpace(token))
		if term == "" {
			continue
		}
		if !ontologyTermPattern.MatchString(term) {
			return nil, fmt.Errorf("invalid ontology term '%s'; expected e.g. UBERON:0001157", strings.TrimSpace(token))
		}
		terms = append(terms, term)
	}

	if len(terms) > MaxOntologyTerms {
		return nil, fmt.Errorf("too many ontology terms (%d); maximum %d allowed", len(terms), MaxOntologyTerms)
	}

	return terms, nil
}

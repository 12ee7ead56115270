package genomic

import (
	"fmt"

	"helix/api/models/constants"
	inputKind "helix/api/models/constants/input-kind"

	"github.com/google/uuid"
)

const (
	MinSequenceLength = 10
	MaxSequenceLength = 1_000_000

	MinIntervalSize = 100
	MaxIntervalSize = 1_000_000
)

// Input is one validated genomic input : a raw DNA
// sequence, a chromosomal interval, or a variant.
type Input interface {
	Kind() constants.InputKind
	Label() string
}

type SequenceInput struct {
	Bases string `json:"bases"`
}

func (s SequenceInput) Kind() constants.InputKind { return inputKind.Sequence }
func (s SequenceInput) Length() int               { return len(s.Bases) }
func (s SequenceInput) Label() string {
	if len(s.Bases) > 20 {
		return fmt.Sprintf("%s... (%d bp)", s.Bases[:20], len(s.Bases))
	}
	return fmt.Sprintf("%s (%d bp)", s.Bases, len(s.Bases))
}

// IntervalInput is 0-based, end-exclusive : [Start, End)
type IntervalInput struct {
	Chromosome string `json:"chromosome"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

func (i IntervalInput) Kind() constants.InputKind { return inputKind.Interval }
func (i IntervalInput) Size() int                 { return i.End - i.Start }
func (i IntervalInput) Label() string {
	return fmt.Sprintf("%s:%d-%d", i.Chromosome, i.Start, i.End)
}

// VariantInput position is 1-based
type VariantInput struct {
	Chromosome string `json:"chromosome"`
	Position   int    `json:"position"`
	Reference  string `json:"reference"`
	Alternate  string `json:"alternate"`
}

func (v VariantInput) Kind() constants.InputKind { return inputKind.Variant }
func (v VariantInput) Label() string {
	return fmt.Sprintf("%s:%d:%s>%s", v.Chromosome, v.Position, v.Reference, v.Alternate)
}

// VariantType labels the shape of the allele change
func (v VariantInput) VariantType() string {
	switch {
	case len(v.Reference) == 1 && len(v.Alternate) == 1:
		return "SNV"
	case len(v.Reference) < len(v.Alternate):
		return "insertion"
	case len(v.Reference) > len(v.Alternate):
		return "deletion"
	default:
		return "complex"
	}
}

type RequestOptions struct {
	Organism      constants.Organism     `json:"organism"`
	OutputTypes   []constants.OutputType `json:"outputTypes"`
	OntologyTerms []string               `json:"ontologyTerms"`
}

// PredictionRequest is built once per dispatch and
// passed by value; it is never mutated afterwards.
type PredictionRequest struct {
	Id      uuid.UUID               `json:"id"`
	Action  constants.RequestAction `json:"action"`
	Input   Input                   `json:"input"`
	Options RequestOptions          `json:"options"`
}

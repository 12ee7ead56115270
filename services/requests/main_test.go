package requests

import (
	"testing"

	"helix/api/models/constants"
	"helix/api/models/constants/command"
	"helix/api/models/constants/organism"
	outputType "helix/api/models/constants/output-type"
	"helix/api/models/genomic"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildRequest(t *testing.T) {
	t.Run("carries input, options and action with a fresh id", func(t *testing.T) {
		input := genomic.VariantInput{Chromosome: "chr22", Position: 36201698, Reference: "A", Alternate: "C"}
		options := genomic.RequestOptions{
			Organism:      organism.Mouse,
			OutputTypes:   []constants.OutputType{outputType.RnaSeq},
			OntologyTerms: []string{"UBERON:0001157"},
		}

		request := BuildRequest(input, options, command.ActionScore)

		assert.NotEqual(t, uuid.Nil, request.Id)
		assert.Equal(t, command.ActionScore, request.Action)
		assert.Equal(t, input, request.Input)
		assert.Equal(t, options, request.Options)
	})

	t.Run("distinct requests get distinct ids", func(t *testing.T) {
		input := genomic.SequenceInput{Bases: "ATCGATCGAT"}
		first := BuildRequest(input, genomic.RequestOptions{}, command.ActionPredict)
		second := BuildRequest(input, genomic.RequestOptions{}, command.ActionPredict)

		assert.NotEqual(t, first.Id, second.Id)
	})
}

func TestParseOrganism(t *testing.T) {
	t.Run("known organisms, case insensitive", func(t *testing.T) {
		parsed, err := ParseOrganism("MOUSE", organism.Human)
		assert.NoError(t, err)
		assert.Equal(t, organism.Mouse, parsed)
	})

	t.Run("empty keeps the fallback", func(t *testing.T) {
		parsed, err := ParseOrganism("   ", organism.Human)
		assert.NoError(t, err)
		assert.Equal(t, organism.Human, parsed)
	})

	t.Run("unknown organism errors", func(t *testing.T) {
		_, err := ParseOrganism("zebrafish", organism.Human)
		assert.Error(t, err)
	})
}

func TestParseOutputTypes(t *testing.T) {
	fallback := outputType.All()

	t.Run("comma separated list, deduplicated", func(t *testing.T) {
		parsed, err := ParseOutputTypes("rna_seq, atac, RNA_SEQ", fallback)
		assert.NoError(t, err)
		assert.Equal(t, []constants.OutputType{outputType.RnaSeq, outputType.Atac}, parsed)
	})

	t.Run("all keyword expands to every kind", func(t *testing.T) {
		parsed, err := ParseOutputTypes("all", fallback)
		assert.NoError(t, err)
		assert.ElementsMatch(t, outputType.All(), parsed)
	})

	t.Run("empty keeps the fallback", func(t *testing.T) {
		parsed, err := ParseOutputTypes("", fallback)
		assert.NoError(t, err)
		assert.ElementsMatch(t, fallback, parsed)
	})

	t.Run("unknown kinds error and name the offenders", func(t *testing.T) {
		_, err := ParseOutputTypes("rna_seq, bogus_type", fallback)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "bogus_type")
	})
}

func TestParseOntologyTerms(t *testing.T) {
	t.Run("valid curies, uppercased", func(t *testing.T) {
		terms, err := ParseOntologyTerms("uberon:0001157, CL:0000236")
		assert.NoError(t, err)
		assert.Equal(t, []string{"UBERON:0001157", "CL:0000236"}, terms)
	})

	t.Run("skip and none mean unfiltered", func(t *testing.T) {
		for _, text := range []string{"", "skip", "NONE"} {
			terms, err := ParseOntologyTerms(text)
			assert.NoError(t, err, text)
			assert.Empty(t, terms, text)
		}
	})

	t.Run("malformed terms error", func(t *testing.T) {
		for _, text := range []string{"UBERON:123", "BOGUS:0001157", "not a term"} {
			_, err := ParseOntologyTerms(text)
			assert.Error(t, err, text)
		}
	})

	t.Run("term count is capped", func(t *testing.T) {
		over := "UBERON:0000001"
		for i := 0; i < MaxOntologyTerms; i++ {
			over += ", UBERON:0000001"
		}

		_, err := ParseOntologyTerms(over)
		assert.Error(t, err)
	})
}

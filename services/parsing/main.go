package parsing

import (
	"strings"

	"helix/api/models/constants"
	"helix/api/models/constants/command"
	inputKind "helix/api/models/constants/input-kind"
	"helix/api/models/genomic"
	"helix/api/services/validation"
)

// Command is the tagged result of parsing one inbound chat
// line. Exactly one of Input / ValidationError is set for
// predict and score commands.
type Command struct {
	Verb constants.CommandVerb
	Kind constants.InputKind

	Input           genomic.Input
	ValidationError *validation.Error

	Raw string
}

// ParseCommand tokenizes a raw chat line into a Command.
// The verb is case-insensitive; for predict/score, a second
// token may declare the input kind (sequence | interval |
// variant). A declared kind narrows the error report to that
// grammar, it never widens acceptance.
func ParseCommand(line string) Command {
	trimmed := strings.TrimSpace(line)
	fields := strings.Fields(trimmed)

	if len(fields) == 0 {
		return Command{Verb: command.Unrecognized, Raw: trimmed}
	}

	verb := command.CastToCommandVerb(fields[0])
	if verb == command.Unrecognized {
		return Command{Verb: command.Unrecognized, Raw: trimmed}
	}

	if verb != command.Predict && verb != command.Score {
		return Command{Verb: verb, Raw: trimmed}
	}

	// predict/score need at least a payload token
	if len(fields) < 2 {
		return Command{
			Verb: verb,
			Raw:  trimmed,
			ValidationError: &validation.Error{
				Rule:      validation.UnrecognizedFormat,
				Offending: trimmed,
				Message:   missingPayloadHint(verb),
			},
		}
	}

	declared := inputKind.Unknown
	payload := strings.TrimSpace(strings.TrimPrefix(trimmed, fields[0]))
	if inputKind.IsKnownInputKind(fields[1]) {
		declared = inputKind.CastToInputKind(fields[1])
		payload = strings.TrimSpace(strings.TrimPrefix(payload, fields[1]))
		if payload == "" {
			return Command{
				Verb: verb,
				Kind: declared,
				Raw:  trimmed,
				ValidationError: &validation.Error{
					Rule:      validation.UnrecognizedFormat,
					Offending: trimmed,
					Message:   missingPayloadHint(verb),
				},
			}
		}
	}

	input, vErr := validation.ValidateDeclared(declared, payload)
	cmd := Command{Verb: verb, Kind: declared, Raw: trimmed}
	if vErr != nil {
		cmd.ValidationError = vErr
		return cmd
	}

	// scoring only operates on intervals and variants
	if verb == command.Score && input.Kind() == inputKind.Sequence {
		cmd.Kind = inputKind.Sequence
		cmd.ValidationError = &validation.Error{
			Rule:      validation.UnrecognizedFormat,
			Offending: payload,
			Message:   "Scoring supports intervals and variants only. Use `score interval chr:start-end` or `score variant chr:pos:ref>alt`",
		}
		return cmd
	}

	cmd.Input = input
	cmd.Kind = input.Kind()
	return cmd
}

func missingPayloadHint(verb constants.CommandVerb) string {
	if verb == command.Score {
		return "Please provide something to score. Examples: `score interval chr1:1000-2000`, `score variant chr1:1000:A>T`"
	}
	return "Please provide an input. Examples: `predict sequence ATCGATCGAT`, `predict interval chr22:1000-2000`, `predict variant chr22:1000:A>T`"
}

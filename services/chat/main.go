package chat

import (
	"context"
	"fmt"
	"strings"

	"helix/api/models"
	"helix/api/models/constants"
	"helix/api/models/constants/command"
	"helix/api/models/dtos"
	"helix/api/models/genomic"
	"helix/api/services/dispatch"
	"helix/api/services/parsing"
	"helix/api/services/prediction"
	"helix/api/services/requests"
	"helix/api/services/sessions"
	"helix/api/services/validation"
)

// Engine drives one conversation turn : session short-circuit
// for pending multi-turn modes, then parse, validate, build,
// dispatch. It never panics on user input and always leaves
// the session in a state from which Idle is reachable.
type Engine struct {
	Config     *models.Config
	Dispatcher *dispatch.Dispatcher
	Prediction prediction.Client
}

func NewEngine(cfg *models.Config, dispatcher *dispatch.Dispatcher, predictionClient prediction.Client) *Engine {
	return &Engine{
		Config:     cfg,
		Dispatcher: dispatcher,
		Prediction: predictionClient,
	}
}

// HandleMessage consumes exactly one inbound message for the
// given session and returns the replies to render. The
// session lock serializes turns within one conversation;
// other conversations proceed independently.
func (e *Engine) HandleMessage(ctx context.Context, session *sessions.Session, content string) []dtos.ChatReply {
	session.Lock()
	defer session.Unlock()

	session.Touch()

	trimmed := strings.TrimSpace(content)
	fields := strings.Fields(trimmed)

	// informational verbs are side-effect only in every mode
	if len(fields) == 1 {
		if verb := command.CastToCommandVerb(fields[0]); command.IsInformational(verb) {
			return e.informationalReply(verb, session)
		}
	}

	switch session.Mode {
	case sessions.AwaitingApiKey:
		return e.consumeApiKey(ctx, session, trimmed)
	case sessions.AwaitingBatchEntries:
		return e.consumeBatchEntries(ctx, session, content)
	case sessions.AwaitingAdvancedParam:
		return e.consumeAdvancedParam(session, trimmed)
	}

	return e.handleIdle(ctx, session, content)
}

func (e *Engine) handleIdle(ctx context.Context, session *sessions.Session, content string) []dtos.ChatReply {
	cmd := parsing.ParseCommand(content)

	switch cmd.Verb {
	case command.Setup:
		session.BeginSetup()
		return []dtos.ChatReply{info("Please enter your prediction service API key:")}

	case command.Batch:
		session.BeginBatch()
		return []dtos.ChatReply{info(batchPromptContent)}

	case command.Advanced:
		session.BeginAdvanced()
		return []dtos.ChatReply{info("Advanced options (1/3) - Select organism (human/mouse), or press enter to keep the default:")}

	case command.Cancel:
		return []dtos.ChatReply{info("Nothing to cancel; no multi-turn mode is pending.")}

	case command.Status, command.Help, command.Examples:
		return e.informationalReply(cmd.Verb, session)

	case command.Predict, command.Score:
		return e.handlePredictOrScore(ctx, session, cmd)

	default:
		// unrecognized input must not crash the pipeline;
		// it always routes to a help hint
		return []dtos.ChatReply{info(unrecognizedHint)}
	}
}

func (e *Engine) handlePredictOrScore(ctx context.Context, session *sessions.Session, cmd parsing.Command) []dtos.ChatReply {
	if cmd.ValidationError != nil {
		return []dtos.ChatReply{errorReply(cmd.ValidationError.Message)}
	}

	action := command.ActionPredict
	if cmd.Verb == command.Score {
		action = command.ActionScore
	}

	request := requests.BuildRequest(cmd.Input, session.Options, action)

	replies := []dtos.ChatReply{info(describeInput(cmd.Input))}

	outcome, dispatchErr := e.Dispatcher.Dispatch(ctx, request, session.Credential())
	if dispatchErr != nil {
		return append(replies, errorReply(dispatchErr.Detail))
	}

	return append(replies, outcomeReplies(outcome)...)
}

// -- AwaitingApiKey

func (e *Engine) consumeApiKey(ctx context.Context, session *sessions.Session, trimmed string) []dtos.ChatReply {
	if command.CastToCommandVerb(trimmed) == command.Cancel {
		session.Reset()
		return []dtos.ChatReply{info("Setup cancelled.")}
	}

	if trimmed == "" {
		// no transition; repeat the prompt
		return []dtos.ChatReply{warning("API key cannot be empty. Please enter your API key, or type `cancel`:")}
	}

	session.SetCredential(trimmed)
	session.Reset()

	replies := []dtos.ChatReply{success("API key stored for this conversation.")}

	// probe the model so the user knows the key works;
	// a failed probe is a warning, the key stays stored
	if e.Prediction != nil {
		metadata, err := e.Prediction.OutputMetadata(ctx, trimmed)
		if err != nil {
			replies = append(replies, warning(fmt.Sprintf("Could not verify the key against the prediction service: %s", err.Error())))
		} else {
			replies = append(replies, success(fmt.Sprintf("Prediction model ready (%d output types available).", len(metadata.OutputTypes))))
		}
	}

	return replies
}

// -- AwaitingBatchEntries

func (e *Engine) consumeBatchEntries(ctx context.Context, session *sessions.Session, content string) []dtos.ChatReply {
	trimmed := strings.TrimSpace(content)
	if command.CastToCommandVerb(trimmed) == command.Cancel {
		session.Reset()
		return []dtos.ChatReply{info("Batch entry cancelled; accumulated entries discarded.")}
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	if len(lines) == 0 {
		// no transition; repeat the prompt
		return []dtos.ChatReply{warning("No entries found. Paste one input per line, or type `cancel`:")}
	}

	// validate each line independently; invalid lines are
	// reported but never abort the batch
	report := make([]dtos.BatchLineDto, len(lines))
	var valid []genomic.PredictionRequest
	validPositions := []int{}

	for i, line := range lines {
		input, vErr := validation.ClassifyAndValidate(line)
		if vErr != nil {
			report[i] = dtos.BatchLineDto{
				Line:    i + 1,
				Input:   line,
				Kind:    validation.Classify(line),
				Ok:      false,
				Message: vErr.Message,
			}
			continue
		}

		report[i] = dtos.BatchLineDto{
			Line:  i + 1,
			Input: line,
			Kind:  input.Kind(),
		}
		valid = append(valid, requests.BuildRequest(input, session.Options, command.ActionPredict))
		validPositions = append(validPositions, i)
	}

	results := e.Dispatcher.DispatchBatch(ctx, valid, session.Credential())
	succeeded := 0
	for j, result := range results {
		i := validPositions[j]
		switch {
		case result.Err != nil:
			report[i].Ok = false
			report[i].Message = result.Err.Detail
		case result.Outcome.Empty:
			report[i].Ok = true
			report[i].Message = "No signal tracks returned for the requested output types"
			succeeded++
		default:
			report[i].Ok = true
			report[i].Message = describeOutcome(result.Outcome)
			succeeded++
		}
	}

	session.Reset()

	summary := fmt.Sprintf("Batch complete: %d/%d entr%s processed successfully.",
		succeeded, len(lines), pluralY(len(lines)))

	reply := dtos.ChatReply{Type: "info", Content: summary, Batch: report}
	return []dtos.ChatReply{reply}
}

// -- AwaitingAdvancedParam

func (e *Engine) consumeAdvancedParam(session *sessions.Session, trimmed string) []dtos.ChatReply {
	if command.CastToCommandVerb(trimmed) == command.Cancel {
		session.Reset()
		return []dtos.ChatReply{info("Advanced configuration cancelled; draft discarded.")}
	}

	switch session.AdvancedStep {
	case sessions.AdvancedStepOrganism:
		selected, err := requests.ParseOrganism(trimmed, session.Draft.Organism)
		if err != nil {
			return []dtos.ChatReply{errorReply(fmt.Sprintf("%s. Try again, or type `cancel`:", capitalize(err.Error())))}
		}
		session.Draft.Organism = selected
		session.AdvanceDraftStep()
		return []dtos.ChatReply{info("Advanced options (2/3) - Select output types (comma separated, or `all`): rna_seq, atac, dnase, cage, chip_histone, chip_tf, splice_sites, splice_junctions, contact_maps, procap")}

	case sessions.AdvancedStepOutputTypes:
		selected, err := requests.ParseOutputTypes(trimmed, session.Draft.OutputTypes)
		if err != nil {
			return []dtos.ChatReply{errorReply(fmt.Sprintf("%s. Try again, or type `cancel`:", capitalize(err.Error())))}
		}
		session.Draft.OutputTypes = selected
		session.AdvanceDraftStep()
		return []dtos.ChatReply{info("Advanced options (3/3) - Enter ontology terms (comma separated, e.g. UBERON:0001157), or `skip`:")}

	case sessions.AdvancedStepOntologyTerms:
		terms, err := requests.ParseOntologyTerms(trimmed)
		if err != nil {
			return []dtos.ChatReply{errorReply(fmt.Sprintf("%s. Try again, or type `cancel`:", capitalize(err.Error())))}
		}
		session.Draft.OntologyTerms = terms
		session.AdvanceDraftStep()
		return []dtos.ChatReply{success(fmt.Sprintf(
			"Advanced options saved: organism %s, %d output type(s), %d ontology term(s). They now apply to every prediction in this conversation.",
			session.Options.Organism, len(session.Options.OutputTypes), len(session.Options.OntologyTerms)))}
	}

	// unreachable step; recover to Idle rather than crash
	session.Reset()
	return []dtos.ChatReply{warning("Advanced configuration state was lost; starting over from idle.")}
}

// -- replies

func (e *Engine) informationalReply(verb constants.CommandVerb, session *sessions.Session) []dtos.ChatReply {
	switch verb {
	case command.Help:
		return []dtos.ChatReply{info(helpContent)}
	case command.Examples:
		return []dtos.ChatReply{info(examplesContent)}
	default:
		return []dtos.ChatReply{e.statusReply(session)}
	}
}

func (e *Engine) statusReply(session *sessions.Session) dtos.ChatReply {
	if !session.HasCredential() {
		return warning("Status: no API key stored. Run `setup` to configure one.")
	}

	// never echo the credential value
	return success(fmt.Sprintf(
		"Status: API key stored; ready for predictions. Organism: %s; %d output type(s); %d ontology term(s).",
		session.Options.Organism, len(session.Options.OutputTypes), len(session.Options.OntologyTerms)))
}

func outcomeReplies(outcome *dispatch.Outcome) []dtos.ChatReply {
	if outcome.Empty {
		return []dtos.ChatReply{info("The prediction service returned no signal tracks for the requested output types.")}
	}

	result := success(describeOutcome(outcome))
	if outcome.Artifact != nil {
		result.Artifact = &dtos.ArtifactDto{Id: outcome.Artifact.Id, Url: outcome.Artifact.Url}
	}

	replies := []dtos.ChatReply{result}
	if outcome.RenderWarning != "" {
		replies = append(replies, warning(outcome.RenderWarning))
	}

	return replies
}

func describeInput(input genomic.Input) string {
	switch typed := input.(type) {
	case genomic.SequenceInput:
		return fmt.Sprintf("Valid DNA sequence (%d bp). Processing..", typed.Length())
	case genomic.IntervalInput:
		return fmt.Sprintf("Valid interval %s (%d bp). Processing..", typed.Label(), typed.Size())
	case genomic.VariantInput:
		return fmt.Sprintf("Valid %s: %s. Processing..", typed.VariantType(), typed.Label())
	default:
		return "Processing.."
	}
}

func describeOutcome(outcome *dispatch.Outcome) string {
	trackCount := 0
	for _, set := range outcome.Bundle.Outputs {
		trackCount += len(set.Tracks)
	}

	if outcome.Request.Action == command.ActionScore {
		return fmt.Sprintf("Scoring complete for %s: %d score(s), %d signal track(s).",
			outcome.Request.Input.Label(), len(outcome.Bundle.Scores), trackCount)
	}

	return fmt.Sprintf("Prediction complete for %s: %d output type(s), %d signal track(s).",
		outcome.Request.Input.Label(), len(outcome.Bundle.Outputs), trackCount)
}

func info(content string) dtos.ChatReply {
	return dtos.ChatReply{Type: "info", Content: content}
}

func success(content string) dtos.ChatReply {
	return dtos.ChatReply{Type: "success", Content: content}
}

func warning(content string) dtos.ChatReply {
	return dtos.ChatReply{Type: "warning", Content: content}
}

func errorReply(content string) dtos.ChatReply {
	return dtos.ChatReply{Type: "error", Content: content}
}

func capitalize(text string) string {
	if text == "" {
		return text
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

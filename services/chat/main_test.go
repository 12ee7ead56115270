package chat

import (
	"context"
	"sync/atomic"
	"testing"

	"helix/api/models"
	"helix/api/models/constants"
	"helix/api/models/constants/organism"
	outputType "helix/api/models/constants/output-type"
	"helix/api/models/genomic"
	"helix/api/services/dispatch"
	"helix/api/services/prediction"
	"helix/api/services/rendering"
	"helix/api/services/sessions"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// scriptedPrediction is the engine-level prediction double :
// returns a scorable, renderable bundle unless scripted
// otherwise.
type scriptedPrediction struct {
	calls       int32
	empty       bool
	err         error
	metadataErr error
}

func (d *scriptedPrediction) PredictOrScore(_ context.Context, _ genomic.PredictionRequest, _ string) (*prediction.ResultBundle, error) {
	atomic.AddInt32(&d.calls, 1)

	if d.err != nil {
		return nil, d.err
	}

	bundle := &prediction.ResultBundle{
		Outputs: map[constants.OutputType]prediction.TrackSet{},
		Scores:  map[string]float64{},
	}
	if !d.empty {
		bundle.Outputs[outputType.RnaSeq] = prediction.TrackSet{
			Tracks: []prediction.Track{{Name: "gene_expression", Values: []float64{0.1, 0.9}}},
		}
		bundle.Scores["expression_lfc"] = 0.42
	}
	return bundle, nil
}

func (d *scriptedPrediction) OutputMetadata(_ context.Context, _ string) (*prediction.Metadata, error) {
	if d.metadataErr != nil {
		return nil, d.metadataErr
	}
	return &prediction.Metadata{ModelVersion: "test", OutputTypes: []string{"RNA_SEQ", "ATAC"}}, nil
}

type renderingDouble struct {
	calls int32
}

func (d *renderingDouble) Render(_ context.Context, _ *prediction.ResultBundle) (*rendering.ArtifactReference, error) {
	atomic.AddInt32(&d.calls, 1)
	return &rendering.ArtifactReference{Id: "artifact-1", Url: "https://plots.local/artifact-1"}, nil
}

func makeTestEngine(t *testing.T, predictionClient prediction.Client) (*Engine, *sessions.Registry) {
	cfg := &models.Config{}
	cfg.Api.BatchConcurrencyLevel = 2

	dispatcher := dispatch.NewDispatcher(predictionClient, &renderingDouble{}, nil, cfg)
	registry := sessions.NewRegistry(cfg)
	t.Cleanup(registry.Stop)

	return NewEngine(cfg, dispatcher, predictionClient), registry
}

func TestEngineSetupFlow(t *testing.T) {
	engine, registry := makeTestEngine(t, &scriptedPrediction{})
	session := registry.Obtain(uuid.New())
	ctx := context.Background()

	t.Run("setup prompts for the key", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "setup")
		assert.Len(t, replies, 1)
		assert.Contains(t, replies[0].Content, "API key")
		assert.Equal(t, sessions.AwaitingApiKey, session.Mode)
	})

	t.Run("empty key repeats the prompt without transition", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "   ")
		assert.Equal(t, "warning", replies[0].Type)
		assert.Equal(t, sessions.AwaitingApiKey, session.Mode)
	})

	t.Run("any non-empty line is consumed as the key", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "my-secret-key")

		assert.Equal(t, "success", replies[0].Type)
		assert.Equal(t, sessions.Idle, session.Mode)
		assert.True(t, session.HasCredential())
		assert.Equal(t, "my-secret-key", session.Credential())
	})

	t.Run("status reports readiness but never echoes the credential", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "status")

		assert.Len(t, replies, 1)
		assert.NotContains(t, replies[0].Content, "my-secret-key")
		assert.Contains(t, replies[0].Content, "API key stored")
	})
}

func TestEngineSetupProbeWarning(t *testing.T) {
	engine, registry := makeTestEngine(t, &scriptedPrediction{
		metadataErr: &prediction.ServiceError{StatusCode: 503, Detail: "Service unavailable"},
	})
	session := registry.Obtain(uuid.New())
	ctx := context.Background()

	engine.HandleMessage(ctx, session, "setup")
	replies := engine.HandleMessage(ctx, session, "my-secret-key")

	// a failed probe warns, but the key stays stored
	assert.Len(t, replies, 2)
	assert.Equal(t, "success", replies[0].Type)
	assert.Equal(t, "warning", replies[1].Type)
	assert.True(t, session.HasCredential())
}

func TestEngineSetupCancel(t *testing.T) {
	engine, registry := makeTestEngine(t, &scriptedPrediction{})
	session := registry.Obtain(uuid.New())
	ctx := context.Background()

	engine.HandleMessage(ctx, session, "setup")
	replies := engine.HandleMessage(ctx, session, "cancel")

	assert.Contains(t, replies[0].Content, "cancelled")
	assert.Equal(t, sessions.Idle, session.Mode)
	assert.False(t, session.HasCredential())
}

func TestEngineMissingCredential(t *testing.T) {
	scripted := &scriptedPrediction{}
	engine, registry := makeTestEngine(t, scripted)
	session := registry.Obtain(uuid.New())

	replies := engine.HandleMessage(context.Background(), session, "predict ATCGATCGAT")

	last := replies[len(replies)-1]
	assert.Equal(t, "error", last.Type)
	assert.Contains(t, last.Content, "setup")
	assert.Equal(t, int32(0), scripted.calls)
}

func TestEnginePredict(t *testing.T) {
	scripted := &scriptedPrediction{}
	engine, registry := makeTestEngine(t, scripted)
	session := registry.Obtain(uuid.New())
	session.SetCredential("key")
	ctx := context.Background()

	t.Run("valid variant echoes the parse then the outcome", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "predict chr22:36201698:A>C")

		assert.Len(t, replies, 2)
		assert.Contains(t, replies[0].Content, "SNV")
		assert.Equal(t, "success", replies[1].Type)
		assert.NotNil(t, replies[1].Artifact)
	})

	t.Run("invalid input reports the first violated rule and skips dispatch", func(t *testing.T) {
		before := scripted.calls
		replies := engine.HandleMessage(ctx, session, "predict chr1:2000-1000")

		assert.Len(t, replies, 1)
		assert.Equal(t, "error", replies[0].Type)
		assert.Equal(t, before, scripted.calls)
	})

	t.Run("empty result is informational, not an error", func(t *testing.T) {
		scripted.empty = true
		defer func() { scripted.empty = false }()

		replies := engine.HandleMessage(ctx, session, "predict ATCGATCGAT")

		last := replies[len(replies)-1]
		assert.Equal(t, "info", last.Type)
		assert.Contains(t, last.Content, "no signal tracks")
	})

	t.Run("score reports scores", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "score chr22:36201698:A>C")

		last := replies[len(replies)-1]
		assert.Equal(t, "success", last.Type)
		assert.Contains(t, last.Content, "Scoring complete")
	})
}

func TestEngineBatchFlow(t *testing.T) {
	scripted := &scriptedPrediction{}
	engine, registry := makeTestEngine(t, scripted)
	session := registry.Obtain(uuid.New())
	session.SetCredential("key")
	ctx := context.Background()

	t.Run("batch prompts for entries", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "batch")
		assert.Equal(t, sessions.AwaitingBatchEntries, session.Mode)
		assert.NotEmpty(t, replies[0].Content)
	})

	t.Run("a malformed line never blocks the others and order is preserved", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "AAAAAAAAAA\nchr1:not-a-coordinate\nchr22:36201698:A>C")

		assert.Len(t, replies, 1)
		assert.Contains(t, replies[0].Content, "2/3")

		report := replies[0].Batch
		assert.Len(t, report, 3)

		assert.True(t, report[0].Ok)
		assert.Equal(t, 1, report[0].Line)
		assert.Equal(t, "AAAAAAAAAA", report[0].Input)

		assert.False(t, report[1].Ok)
		assert.Equal(t, 2, report[1].Line)
		assert.NotEmpty(t, report[1].Message)

		assert.True(t, report[2].Ok)
		assert.Equal(t, 3, report[2].Line)

		assert.Equal(t, sessions.Idle, session.Mode)
		assert.Equal(t, int32(2), scripted.calls)
	})

	t.Run("empty submission repeats the prompt without transition", func(t *testing.T) {
		engine.HandleMessage(ctx, session, "batch")
		replies := engine.HandleMessage(ctx, session, "\n\n")

		assert.Equal(t, "warning", replies[0].Type)
		assert.Equal(t, sessions.AwaitingBatchEntries, session.Mode)

		engine.HandleMessage(ctx, session, "cancel")
		assert.Equal(t, sessions.Idle, session.Mode)
	})
}

func TestEngineAdvancedFlow(t *testing.T) {
	engine, registry := makeTestEngine(t, &scriptedPrediction{})
	session := registry.Obtain(uuid.New())
	ctx := context.Background()

	t.Run("three parameters collected one turn each", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "advanced")
		assert.Contains(t, replies[0].Content, "(1/3)")

		replies = engine.HandleMessage(ctx, session, "mouse")
		assert.Contains(t, replies[0].Content, "(2/3)")

		replies = engine.HandleMessage(ctx, session, "rna_seq, atac")
		assert.Contains(t, replies[0].Content, "(3/3)")

		replies = engine.HandleMessage(ctx, session, "UBERON:0001157")
		assert.Equal(t, "success", replies[0].Type)

		assert.Equal(t, sessions.Idle, session.Mode)
		assert.Equal(t, organism.Mouse, session.Options.Organism)
		assert.Equal(t, []constants.OutputType{outputType.RnaSeq, outputType.Atac}, session.Options.OutputTypes)
		assert.Equal(t, []string{"UBERON:0001157"}, session.Options.OntologyTerms)
	})

	t.Run("an invalid answer re-prompts at the same step", func(t *testing.T) {
		engine.HandleMessage(ctx, session, "advanced")
		replies := engine.HandleMessage(ctx, session, "zebrafish")

		assert.Equal(t, "error", replies[0].Type)
		assert.Equal(t, sessions.AwaitingAdvancedParam, session.Mode)
		assert.Equal(t, sessions.AdvancedStepOrganism, session.AdvancedStep)
	})

	t.Run("cancel mid-flow keeps the previously applied options", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "cancel")

		assert.Contains(t, replies[0].Content, "cancelled")
		assert.Equal(t, sessions.Idle, session.Mode)
		assert.Equal(t, organism.Mouse, session.Options.Organism)
	})
}

func TestEngineInformationalInAnyMode(t *testing.T) {
	engine, registry := makeTestEngine(t, &scriptedPrediction{})
	session := registry.Obtain(uuid.New())
	ctx := context.Background()

	engine.HandleMessage(ctx, session, "setup")

	t.Run("help does not consume the pending key prompt", func(t *testing.T) {
		replies := engine.HandleMessage(ctx, session, "help")

		assert.Equal(t, "info", replies[0].Type)
		assert.Equal(t, sessions.AwaitingApiKey, session.Mode)
		assert.False(t, session.HasCredential())
	})

	t.Run("status does not consume the pending key prompt", func(t *testing.T) {
		engine.HandleMessage(ctx, session, "status")
		assert.Equal(t, sessions.AwaitingApiKey, session.Mode)
	})
}

func TestEngineUnrecognizedInput(t *testing.T) {
	engine, registry := makeTestEngine(t, &scriptedPrediction{})
	session := registry.Obtain(uuid.New())

	for _, content := range []string{"how do genes work?", "", "predict"} {
		replies := engine.HandleMessage(context.Background(), session, content)
		assert.NotEmpty(t, replies, content)
		assert.Equal(t, sessions.Idle, session.Mode, content)
	}
}

func TestEngineIdleCancel(t *testing.T) {
	engine, registry := makeTestEngine(t, &scriptedPrediction{})
	session := registry.Obtain(uuid.New())

	replies := engine.HandleMessage(context.Background(), session, "cancel")
	assert.Contains(t, replies[0].Content, "Nothing to cancel")
}

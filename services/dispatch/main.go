package dispatch

import (
	"context"
	"fmt"
	"time"

	"helix/api/models"
	"helix/api/models/genomic"
	esRepo "helix/api/repositories/elasticsearch"
	"helix/api/services/prediction"
	"helix/api/services/rendering"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"golang.org/x/sync/errgroup"
)

type Reason string

const (
	MissingCredential Reason = "MissingCredential"
	UpstreamFailure   Reason = "UpstreamFailure"
)

type Error struct {
	Reason Reason `json:"reason"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return e.Detail
}

// Outcome is the classified result of one dispatch : a
// successful bundle (optionally with a rendered artifact and
// a non-fatal render warning), or a structurally empty one.
type Outcome struct {
	Request  genomic.PredictionRequest
	Bundle   *prediction.ResultBundle
	Artifact *rendering.ArtifactReference

	Empty bool

	// a rendering failure never downgrades a successful
	// prediction; it is carried as a warning instead
	RenderWarning string
}

// BatchResult pairs one batch line with either its outcome or
// its error, preserving input order.
type BatchResult struct {
	Index   int
	Outcome *Outcome
	Err     *Error
}

type Dispatcher struct {
	Prediction prediction.Client
	Rendering  rendering.Client

	// optional dispatch audit log
	Es7Client *es7.Client
	Config    *models.Config
}

func NewDispatcher(predictionClient prediction.Client, renderingClient rendering.Client, es *es7.Client, cfg *models.Config) *Dispatcher {
	return &Dispatcher{
		Prediction: predictionClient,
		Rendering:  renderingClient,
		Es7Client:  es,
		Config:     cfg,
	}
}

// Dispatch runs one built request against the prediction
// collaborator and forwards a successful bundle to the
// rendering collaborator. It fails fast when no credential is
// stored and never lets a collaborator fault escape as a
// panic; failed user actions are not retried.
func (d *Dispatcher) Dispatch(ctx context.Context, request genomic.PredictionRequest, credential string) (*Outcome, *Error) {
	if credential == "" {
		// never attempt the external call
		return nil, &Error{
			Reason: MissingCredential,
			Detail: "No API key configured. Run `setup` to store one before predicting",
		}
	}

	bundle, err := d.Prediction.PredictOrScore(ctx, request, credential)
	if err != nil {
		d.logOutcome(request, "error")
		return nil, &Error{Reason: UpstreamFailure, Detail: err.Error()}
	}

	outcome := &Outcome{Request: request, Bundle: bundle}

	if bundle.IsEmpty() {
		// a valid, reportable condition, not a failure
		outcome.Empty = true
		d.logOutcome(request, "empty")
		return outcome, nil
	}

	artifact, renderErr := d.Rendering.Render(ctx, bundle)
	if renderErr != nil {
		outcome.RenderWarning = fmt.Sprintf("Prediction succeeded, but rendering failed: %s", renderErr.Error())
	} else {
		outcome.Artifact = artifact
	}

	d.logOutcome(request, "success")
	return outcome, nil
}

// DispatchBatch fans the requests out under a bounded
// errgroup; results land in an index-addressed slice so
// reporting stays in input order, and one failing entry never
// blocks the others.
func (d *Dispatcher) DispatchBatch(ctx context.Context, batch []genomic.PredictionRequest, credential string) []BatchResult {
	results := make([]BatchResult, len(batch))

	concurrency := d.Config.Api.BatchConcurrencyLevel
	if concurrency <= 0 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, request := range batch {
		i, request := i, request
		g.Go(func() error {
			outcome, err := d.Dispatch(gctx, request, credential)
			results[i] = BatchResult{Index: i, Outcome: outcome, Err: err}
			// partial failure is allowed; never abort the batch
			return nil
		})
	}

	// goroutines only report through the results slice
	_ = g.Wait()

	return results
}

// logOutcome records the dispatch shape in the audit index,
// fire and forget; the conversation never waits on it.
func (d *Dispatcher) logOutcome(request genomic.PredictionRequest, outcome string) {
	if d.Es7Client == nil {
		return
	}

	go func() {
		doc := esRepo.DispatchLogDocument{
			RequestId: request.Id.String(),
			Action:    request.Action,
			Kind:      request.Input.Kind(),
			Organism:  request.Options.Organism,
			Outcome:   outcome,
			CreatedAt: time.Now(),
		}
		if err := esRepo.IndexDispatchLog(d.Es7Client, d.Config, doc); err != nil {
			fmt.Printf("[%s] - Error indexing dispatch log : %v..\n", time.Now(), err)
		}
	}()
}

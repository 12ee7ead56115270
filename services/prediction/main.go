package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"helix/api/models"
	"helix/api/models/constants"
	outputType "helix/api/models/constants/output-type"
	"helix/api/models/genomic"

	"github.com/Jeffail/gabs"
	"github.com/cenkalti/backoff"
	"github.com/mitchellh/mapstructure"
)

// Track is one named signal track returned by the model
type Track struct {
	Name   string    `json:"name" mapstructure:"name"`
	Values []float64 `json:"values" mapstructure:"values"`
}

type TrackSet struct {
	Tracks []Track `json:"tracks" mapstructure:"tracks"`
}

// ResultBundle is the unit-of-work returned for one request :
// one input crossed with one options set.
type ResultBundle struct {
	RequestId string                            `json:"requestId"`
	Outputs   map[constants.OutputType]TrackSet `json:"outputs"`
	Scores    map[string]float64                `json:"scores,omitempty"`
}

// IsEmpty reports a structurally empty result : no tracks for
// any requested output type and no scores. A valid, reportable
// condition, not a failure.
func (rb *ResultBundle) IsEmpty() bool {
	for _, set := range rb.Outputs {
		if len(set.Tracks) > 0 {
			return false
		}
	}
	return len(rb.Scores) == 0
}

type Metadata struct {
	ModelVersion string   `json:"modelVersion" mapstructure:"modelVersion"`
	OutputTypes  []string `json:"outputTypes" mapstructure:"outputTypes"`
}

// ServiceError is a collaborator-raised failure translated
// into something actionable for the user.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return e.Detail
}

// Client is the narrow interface the dispatcher consumes; the
// prediction service owns all model computation and remote
// communication beyond it.
type Client interface {
	PredictOrScore(ctx context.Context, request genomic.PredictionRequest, credential string) (*ResultBundle, error)
	OutputMetadata(ctx context.Context, credential string) (*Metadata, error)
}

type httpClient struct {
	baseUrl string
	client  *http.Client
}

func NewClient(cfg *models.Config) Client {
	return &httpClient{
		baseUrl: cfg.Prediction.Url,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (hc *httpClient) PredictOrScore(ctx context.Context, request genomic.PredictionRequest, credential string) (*ResultBundle, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"requestId":     request.Id.String(),
		"kind":          request.Input.Kind(),
		"input":         request.Input,
		"organism":      request.Options.Organism,
		"outputTypes":   request.Options.OutputTypes,
		"ontologyTerms": request.Options.OntologyTerms,
	})

	url := fmt.Sprintf("%s/v1/%s", hc.baseUrl, request.Action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ServiceError{Detail: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", credential)

	response, err := hc.client.Do(req)
	if err != nil {
		return nil, &ServiceError{Detail: fmt.Sprintf("prediction service unreachable: %v", err)}
	}
	defer response.Body.Close()

	responseBody, _ := io.ReadAll(response.Body)
	if response.StatusCode != http.StatusOK {
		return nil, classifyServiceError(response.StatusCode, responseBody)
	}

	return parseResultBundle(responseBody)
}

// OutputMetadata probes the service with the given credential
// and reports what the model can produce. Retried with an
// exponential backoff since it only runs at setup time; user
// dispatches are never retried.
func (hc *httpClient) OutputMetadata(ctx context.Context, credential string) (*Metadata, error) {
	var metadata *Metadata

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/metadata", hc.baseUrl), nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Api-Key", credential)

		response, err := hc.client.Do(req)
		if err != nil {
			return err
		}
		defer response.Body.Close()

		responseBody, _ := io.ReadAll(response.Body)
		if response.StatusCode != http.StatusOK {
			serviceErr := classifyServiceError(response.StatusCode, responseBody)
			if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
				// bad credential will not improve with retrying
				return backoff.Permanent(serviceErr)
			}
			return serviceErr
		}

		jsonParsed, parseErr := gabs.ParseJSON(responseBody)
		if parseErr != nil {
			return backoff.Permanent(&ServiceError{Detail: fmt.Sprintf("malformed metadata response: %v", parseErr)})
		}

		var decoded Metadata
		if decodeErr := mapstructure.Decode(jsonParsed.Data(), &decoded); decodeErr != nil {
			return backoff.Permanent(&ServiceError{Detail: fmt.Sprintf("unexpected metadata shape: %v", decodeErr)})
		}

		metadata = &decoded
		return nil
	}

	if err := backoff.Retry(operation, retryBackoff); err != nil {
		return nil, err
	}

	return metadata, nil
}

func parseResultBundle(responseBody []byte) (*ResultBundle, error) {
	jsonParsed, err := gabs.ParseJSON(responseBody)
	if err != nil {
		return nil, &ServiceError{Detail: fmt.Sprintf("malformed prediction response: %v", err)}
	}

	bundle := &ResultBundle{
		Outputs: map[constants.OutputType]TrackSet{},
		Scores:  map[string]float64{},
	}

	if requestId, ok := jsonParsed.Path("requestId").Data().(string); ok {
		bundle.RequestId = requestId
	}

	// outputs: { "RNA_SEQ": { "tracks": [...] }, ... }
	if outputs, err := jsonParsed.Path("outputs").ChildrenMap(); err == nil {
		for name, child := range outputs {
			kind := outputType.CastToOutputType(name)
			if kind == outputType.Unknown {
				continue
			}

			var set TrackSet
			if decodeErr := mapstructure.WeakDecode(child.Data(), &set); decodeErr != nil {
				fmt.Printf("[%s] - Skipping undecodable track set '%s' : %v..\n", time.Now(), name, decodeErr)
				continue
			}
			bundle.Outputs[kind] = set
		}
	}

	// scores: { "expression_lfc": 0.42, ... }
	if scores, err := jsonParsed.Path("scores").ChildrenMap(); err == nil {
		for name, child := range scores {
			if value, ok := child.Data().(float64); ok {
				bundle.Scores[name] = value
			}
		}
	}

	return bundle, nil
}

// classifyServiceError maps upstream failures onto messages a
// user can act on
func classifyServiceError(statusCode int, responseBody []byte) *ServiceError {
	detail := ""
	if jsonParsed, err := gabs.ParseJSON(responseBody); err == nil {
		if message, ok := jsonParsed.Path("message").Data().(string); ok {
			detail = message
		}
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ServiceError{StatusCode: statusCode, Detail: "Authentication error: the prediction service rejected your API key. Re-run `setup`"}
	case http.StatusTooManyRequests:
		return &ServiceError{StatusCode: statusCode, Detail: "Quota exceeded: the prediction service is rate limiting this key. Try again later"}
	case http.StatusBadRequest:
		if detail == "" {
			detail = "the prediction service rejected the request"
		}
		return &ServiceError{StatusCode: statusCode, Detail: fmt.Sprintf("Invalid request: %s", detail)}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &ServiceError{StatusCode: statusCode, Detail: "Service unavailable: the prediction service is temporarily down. Try again later"}
	default:
		if detail == "" {
			detail = fmt.Sprintf("unexpected status %d", statusCode)
		}
		return &ServiceError{StatusCode: statusCode, Detail: detail}
	}
}

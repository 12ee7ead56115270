package rendering

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"helix/api/models"
	"helix/api/services/prediction"

	"github.com/Jeffail/gabs"
	"github.com/google/uuid"
)

// ArtifactReference points at a plot the rendering
// collaborator produced for one result bundle.
type ArtifactReference struct {
	Id  string `json:"id"`
	Url string `json:"url"`
}

type RenderError struct {
	Detail string
}

func (e *RenderError) Error() string {
	return e.Detail
}

// Client is the narrow interface to the external plotting
// collaborator; it owns all visualization internals.
type Client interface {
	Render(ctx context.Context, bundle *prediction.ResultBundle) (*ArtifactReference, error)
}

type httpClient struct {
	baseUrl string
	client  *http.Client
}

func NewClient(cfg *models.Config) Client {
	return &httpClient{
		baseUrl: cfg.Rendering.Url,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (hc *httpClient) Render(ctx context.Context, bundle *prediction.ResultBundle) (*ArtifactReference, error) {
	body, _ := json.Marshal(bundle)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/plot", hc.baseUrl), bytes.NewReader(body))
	if err != nil {
		return nil, &RenderError{Detail: fmt.Sprintf("failed to create render request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := hc.client.Do(req)
	if err != nil {
		return nil, &RenderError{Detail: fmt.Sprintf("rendering service unreachable: %v", err)}
	}
	defer response.Body.Close()

	responseBody, _ := io.ReadAll(response.Body)
	if response.StatusCode != http.StatusOK {
		return nil, &RenderError{Detail: fmt.Sprintf("rendering service returned status %d", response.StatusCode)}
	}

	jsonParsed, parseErr := gabs.ParseJSON(responseBody)
	if parseErr != nil {
		return nil, &RenderError{Detail: fmt.Sprintf("malformed render response: %v", parseErr)}
	}

	artifact := &ArtifactReference{Id: uuid.NewString()}
	if id, ok := jsonParsed.Path("id").Data().(string); ok {
		artifact.Id = id
	}
	if url, ok := jsonParsed.Path("url").Data().(string); ok {
		artifact.Url = url
	}

	return artifact, nil
}

package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"helix/api/models"
	"helix/api/models/constants"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
)

const dispatchLogsIndex = "dispatch-logs"

// DispatchLogDocument records one dispatch outcome for the
// audit overview. It deliberately stores only shapes and
// outcomes : no sequences, no credentials.
type DispatchLogDocument struct {
	RequestId string                  `json:"requestId"`
	Action    constants.RequestAction `json:"action"`
	Kind      constants.InputKind     `json:"kind"`
	Organism  constants.Organism      `json:"organism"`
	Outcome   string                  `json:"outcome"` // success | empty | error
	CreatedAt time.Time               `json:"createdAt"`
}

func IndexDispatchLog(es *es7.Client, cfg *models.Config, doc DispatchLogDocument) error {
	b, marshalErr := json.Marshal(doc)
	if marshalErr != nil {
		return marshalErr
	}

	// Instantiate a request object
	req := esapi.IndexRequest{
		Index:   dispatchLogsIndex,
		Body:    strings.NewReader(string(b)),
		Refresh: "true",
	}

	// Return an API response object from request
	res, err := req.Do(context.Background(), es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing dispatch log failed: %s", res.Status())
	}

	return nil
}

// GetDispatchLogsOverview aggregates the audit log by input
// kind and by outcome.
func GetDispatchLogsOverview(es *es7.Client, cfg *models.Config) (map[string]interface{}, map[string]interface{}, error) {
	// overall query structure
	var buf bytes.Buffer
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"kinds": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "kind.keyword",
				},
			},
			"outcomes": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "outcome.keyword",
				},
			},
		},
	}

	// encode the query
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, nil, err
	}

	if cfg.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	// Perform the search request.
	res, searchErr := es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex(dispatchLogsIndex),
		es.Search.WithBody(&buf),
		es.Search.WithTrackTotalHits(true),
	)
	if searchErr != nil {
		return nil, nil, searchErr
	}
	defer res.Body.Close()

	// Declare an empty interface, unmarshal or decode the JSON
	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, nil, err
	}

	kinds := bucketCounts(result, "kinds")
	outcomes := bucketCounts(result, "outcomes")

	return kinds, outcomes, nil
}

func bucketCounts(result map[string]interface{}, aggregation string) map[string]interface{} {
	counts := map[string]interface{}{}

	aggregations, ok := result["aggregations"].(map[string]interface{})
	if !ok {
		return counts
	}
	agg, ok := aggregations[aggregation].(map[string]interface{})
	if !ok {
		return counts
	}
	buckets, ok := agg["buckets"].([]interface{})
	if !ok {
		return counts
	}

	for _, b := range buckets {
		bucket, ok := b.(map[string]interface{})
		if !ok {
			continue
		}
		key := fmt.Sprint(bucket["key"])
		counts[key] = bucket["doc_count"]
	}

	return counts
}

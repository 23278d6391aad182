package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/careloop-health/readmit/pkg/common/logger"
	"github.com/careloop-health/readmit/pkg/common/models"
	"github.com/careloop-health/readmit/pkg/gateway/httpclient"
)

// ErrTimeout marks a relay that hit its deadline before the model service
// answered. The original system blocked forever here; the deadline is a
// deliberate behavior change.
var ErrTimeout = errors.New("model service timed out")

// UpstreamError is a non-2xx answer from the model service. Detail carries
// the downstream body, parsed as JSON when possible.
type UpstreamError struct {
	Status int
	Detail interface{}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model service returned %d", e.Status)
}

// Client calls the external prediction service. The service is a black box:
// the client relays bodies verbatim in both directions and performs no
// schema validation on the response. No retries are attempted; a failure is
// surfaced once, immediately.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    httpclient.New(timeout),
	}
}

// Predict posts the normalized payload to POST /predict and returns the raw
// response body on any 2xx answer.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest, requestID string) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	outReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	outReq.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		outReq.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.http.Do(outReq)
	if err != nil {
		if httpclient.IsTimeout(err) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"url":        c.baseURL + "/predict",
		"status":     resp.StatusCode,
		"request_id": requestID,
	}).Info("Forwarded request to model service")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Detail: parseDetail(raw)}
	}

	return raw, nil
}

// parseDetail keeps a JSON error body structured so the caller can relay it
// as-is inside the {"error": ...} envelope.
func parseDetail(raw []byte) interface{} {
	var detail interface{}
	if err := json.Unmarshal(raw, &detail); err != nil || detail == nil {
		return string(raw)
	}
	return detail
}

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
)

const simulatePath = "/api/simulate"

// #region client-struct
// HTTPClient calls the backend's JSON endpoint.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// #endregion client-struct

// #region constructor
// NewHTTPClient returns a client for baseURL. A nil httpClient uses http.DefaultClient.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// #endregion constructor

// #region run-simulation
// RunSimulation posts req and returns the decoded response as sent by the
// backend. No retries; every failure is a *TransportError.
func (c *HTTPClient) RunSimulation(ctx context.Context, req sim.Request) (*sim.Response, error) {
	url := c.baseURL + simulatePath
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "encode request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "POST " + url, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: "POST " + url, Status: resp.StatusCode, Body: string(payload)}
	}

	out, err := sim.DecodeResponse(payload)
	if err != nil {
		return nil, &TransportError{Op: "decode response", Status: resp.StatusCode, Err: err}
	}
	return out, nil
}

// #endregion run-simulation

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type BackendState string

const (
	BackendOnline  BackendState = "online"
	BackendWarning BackendState = "warning"
	BackendOffline BackendState = "offline"
)

type BackendStatus struct {
	State     BackendState `json:"state"`
	Message   string       `json:"message"`
	Status    int          `json:"status,omitempty"`
	LatencyMS int64        `json:"latencyMs"`
}

// Probe sends one unauthenticated HEAD to the categories endpoint. A reply
// served as HTML means an interstitial sits in front of the API.
func (c *Client) Probe(ctx context.Context) BackendStatus {
	target, err := c.resolve(EndpointCategories, nil)
	if err != nil {
		return BackendStatus{State: BackendOffline, Message: err.Error()}
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(probeCtx, http.MethodHead, target, nil)
	if err != nil {
		return BackendStatus{State: BackendOffline, Message: err.Error()}
	}
	c.applyHeaders(ctx, httpReq, &Request{SkipAuth: true})

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return BackendStatus{State: BackendOffline, Message: transportError(err).Error(), LatencyMS: latency}
	}
	_ = resp.Body.Close()

	status := BackendStatus{Status: resp.StatusCode, LatencyMS: latency}
	switch {
	case strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html"):
		status.State = BackendWarning
		status.Message = poisonedGuidance
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		status.State = BackendOnline
		status.Message = "backend is online and responding"
	default:
		status.State = BackendOffline
		status.Message = fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}
	return status
}

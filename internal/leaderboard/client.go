// Package leaderboard submits benchmark scores to the leaderboard
// server. Submission failures are terminal values, not errors: a batch's
// computed scores must survive a dead leaderboard.
package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"regexp"
	"time"

	"github.com/ahrav/crmbench/internal/domain"
)

// submitPath is the leaderboard's score-submission endpoint.
const submitPath = "/submit_agent_score_api"

// apiKeyPattern is the expected leaderboard key shape. A mismatch is
// logged, never enforced; the server is the authority on key validity.
var apiKeyPattern = regexp.MustCompile(`^[0-9a-f]{48}$`)

// RetryPolicy controls submission retries.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay seeds the exponential backoff; MaxDelay caps it.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// RetryableStatus reports whether an HTTP status is worth retrying.
	RetryableStatus func(status int) bool
}

// DefaultRetryPolicy retries transient statuses three times with
// exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
		RetryableStatus: func(status int) bool {
			switch status {
			case http.StatusRequestTimeout,
				http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				return true
			}
			return false
		},
	}
}

// SubmissionResult is the terminal outcome of a submission attempt.
// When Err is non-empty the submission failed after all retries; the
// caller still holds its scores.
type SubmissionResult struct {
	// Status is the server-reported status, normally "success".
	Status string `json:"status"`

	// Username is the leaderboard account the key resolved to.
	Username string `json:"username,omitempty"`

	// Message carries the server's error text for rejected submissions.
	Message string `json:"message,omitempty"`

	// Err describes a client-side failure (network, retries exhausted).
	Err string `json:"error,omitempty"`
}

// Accepted reports whether the leaderboard recorded the score.
func (r SubmissionResult) Accepted() bool {
	return r.Err == "" && r.Status == "success"
}

// submitPayload is the wire format the server expects.
type submitPayload struct {
	APIKey        string             `json:"api_key"`
	AgentName     string             `json:"agent_name"`
	Score         float64            `json:"score"`
	DatasetScores map[string]float64 `json:"dataset_scores,omitempty"`
}

// Client submits scores over an injected HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	policy     RetryPolicy
	logger     *slog.Logger
}

// NewClient constructs a leaderboard client. A nil httpClient gets a
// 30-second-timeout default; a zero policy gets DefaultRetryPolicy.
func NewClient(httpClient *http.Client, baseURL, apiKey string, policy RetryPolicy, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	if policy.RetryableStatus == nil {
		policy.RetryableStatus = DefaultRetryPolicy().RetryableStatus
	}
	if logger == nil {
		logger = slog.Default()
	}

	if !apiKeyPattern.MatchString(apiKey) {
		logger.Warn("api key does not look like a leaderboard key", "length", len(apiKey))
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    trimTrailingSlash(baseURL),
		apiKey:     apiKey,
		policy:     policy,
		logger:     logger,
	}
}

// SubmitScore posts the overall score (0-100 scale) with optional
// per-dataset averages. It never returns an error: transient statuses
// are retried per the policy, and the terminal outcome (accepted,
// rejected, or unreachable) lands in the SubmissionResult.
func (c *Client) SubmitScore(ctx context.Context, agentName string, score float64, datasetScores map[string]float64) SubmissionResult {
	payload, err := json.Marshal(submitPayload{
		APIKey:        c.apiKey,
		AgentName:     agentName,
		Score:         score,
		DatasetScores: datasetScores,
	})
	if err != nil {
		return SubmissionResult{Err: fmt.Sprintf("%v: encoding payload: %v", domain.ErrSubmission, err)}
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		result, retryable, err := c.post(ctx, payload)
		if err == nil {
			return result
		}
		lastErr = err

		if !retryable || attempt == c.policy.MaxAttempts || ctx.Err() != nil {
			break
		}

		delay := c.backoff(attempt)
		c.logger.Warn("submission attempt failed, retrying",
			"attempt", attempt, "delay", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return SubmissionResult{Err: fmt.Sprintf("%v: %v", domain.ErrSubmission, ctx.Err())}
		}
	}

	return SubmissionResult{Err: fmt.Sprintf("%v: %v", domain.ErrSubmission, lastErr)}
}

// post performs one submission attempt. The bool reports whether the
// failure is worth retrying.
func (c *Client) post(ctx context.Context, payload []byte) (SubmissionResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(payload))
	if err != nil {
		return SubmissionResult{}, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors are always retryable.
		return SubmissionResult{}, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SubmissionResult{}, true, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
		if c.policy.RetryableStatus(resp.StatusCode) {
			return SubmissionResult{}, true, err
		}
		// Definitive rejection: surface the server's message as the
		// terminal result instead of retrying.
		result := SubmissionResult{Status: "error", Message: string(body)}
		if jsonErr := json.Unmarshal(body, &result); jsonErr == nil && result.Status == "" {
			result.Status = "error"
		}
		return result, false, nil
	}

	var result SubmissionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return SubmissionResult{}, false, fmt.Errorf("decoding response: %w", err)
	}
	return result, false, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	shift := attempt - 1
	if shift > 30 {
		shift = 30
	}
	d := c.policy.BaseDelay << uint(shift)
	if d <= 0 || d > c.policy.MaxDelay {
		// Overflowed or past the cap; either way the cap applies.
		d = c.policy.MaxDelay
	}

	// Full jitter keeps simultaneous clients from retrying in step.
	return time.Duration(rand.Int63n(int64(d) + 1))
}

func trimTrailingSlash(url string) string {
	for len(url) > 0 && url[len(url)-1] == '/' {
		url = url[:len(url)-1]
	}
	return url
}

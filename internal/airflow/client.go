package airflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avoronkov/dagtail/internal/domain"
)

const apiDagsPath = "/api/v2/dags"

// Client talks to the Airflow v2 REST API. It authenticates once via the
// token endpoint and sends the bearer token on every later request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given Airflow base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges credentials for a JWT and stores it for all
// subsequent requests. This is a one-time setup step; failure here is
// fatal to the caller.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	var tr tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/token", tokenRequest{Username: username, Password: password}, &tr); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	c.token = tr.AccessToken
	return nil
}

type triggerRequest struct {
	// LogicalDate is always serialized as null so the server picks the
	// default schedule time.
	LogicalDate *string        `json:"logical_date"`
	Conf        map[string]any `json:"conf"`
}

type triggerResponse struct {
	DAGRunID string `json:"dag_run_id"`
}

// TriggerDAGRun starts a new run of the DAG with optional conf parameters
// (passed through verbatim) and returns the server-assigned run id. The id
// may be empty if the response body omits it; the caller decides how to
// treat that. No retries.
func (c *Client) TriggerDAGRun(ctx context.Context, dagID string, conf map[string]any) (string, error) {
	if conf == nil {
		conf = map[string]any{}
	}
	var tr triggerResponse
	path := apiDagsPath + "/" + url.PathEscape(dagID) + "/dagRuns"
	if err := c.doJSON(ctx, http.MethodPost, path, triggerRequest{Conf: conf}, &tr); err != nil {
		return "", fmt.Errorf("failed to trigger DAG %s: %w", dagID, err)
	}
	return tr.DAGRunID, nil
}

// GetDAGRun fetches the current state of a run.
func (c *Client) GetDAGRun(ctx context.Context, dagID, runID string) (*domain.DAGRun, error) {
	var run domain.DAGRun
	path := c.runPath(dagID, runID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &run); err != nil {
		return nil, fmt.Errorf("failed to fetch run %s: %w", runID, err)
	}
	return &run, nil
}

type taskInstancesResponse struct {
	TaskInstances []domain.TaskInstance `json:"task_instances"`
}

// ListTaskInstances fetches the task instances of a run.
func (c *Client) ListTaskInstances(ctx context.Context, dagID, runID string) ([]domain.TaskInstance, error) {
	var tir taskInstancesResponse
	path := c.runPath(dagID, runID) + "/taskInstances"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &tir); err != nil {
		return nil, fmt.Errorf("failed to fetch task instances for run %s: %w", runID, err)
	}
	return tir.TaskInstances, nil
}

type taskLogsResponse struct {
	Content []domain.LogEntry `json:"content"`
}

// TaskLogs fetches the full log content of a task's first attempt.
// Retries across attempts are out of scope, so the attempt index is fixed.
func (c *Client) TaskLogs(ctx context.Context, dagID, runID, taskID string) ([]domain.LogEntry, error) {
	var lr taskLogsResponse
	path := c.runPath(dagID, runID) + "/taskInstances/" + url.PathEscape(taskID) + "/logs/1?full_content=true"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &lr); err != nil {
		return nil, fmt.Errorf("failed to fetch logs for task %s: %w", taskID, err)
	}
	return lr.Content, nil
}

func (c *Client) runPath(dagID, runID string) string {
	return apiDagsPath + "/" + url.PathEscape(dagID) + "/dagRuns/" + url.PathEscape(runID)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func httpError(resp *http.Response) error {
	var er struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Detail == "" {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, er.Detail)
}

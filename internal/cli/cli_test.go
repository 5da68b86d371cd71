package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronkov/dagtail/internal/config"
)

func testGlobals(cfg *config.Config) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	if cfg == nil {
		cfg = config.Default()
	}
	var out, errOut bytes.Buffer
	g := NewGlobalsWithConfig(&CLI{Format: "text"}, cfg)
	g.Stdout = &out
	g.Stderr = &errOut
	g.FlagsSet = map[string]bool{}
	return g, &out, &errOut
}

func TestParseConf(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		conf, cliErr := parseConf(nil)
		require.Nil(t, cliErr)
		assert.Nil(t, conf)
	})

	t.Run("key value pairs", func(t *testing.T) {
		conf, cliErr := parseConf([]string{"env=staging", "rate=5"})
		require.Nil(t, cliErr)
		assert.Equal(t, map[string]any{"env": "staging", "rate": "5"}, conf)
	})

	t.Run("value containing equals", func(t *testing.T) {
		conf, cliErr := parseConf([]string{"query=a=b"})
		require.Nil(t, cliErr)
		assert.Equal(t, map[string]any{"query": "a=b"}, conf)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, cliErr := parseConf([]string{"no-equals"})
		require.NotNil(t, cliErr)
		assert.Equal(t, "INVALID_CONF", cliErr.Code)
	})
}

func TestSplitSources(t *testing.T) {
	assert.Equal(t, []string{"root", "task"}, splitSources("root,task"))
	assert.Equal(t, []string{"task"}, splitSources(" task "))
	assert.Nil(t, splitSources(""))
}

func TestResolveLogSources(t *testing.T) {
	g, _, _ := testGlobals(nil)

	t.Run("config default when flag not set", func(t *testing.T) {
		assert.Equal(t, []string{"root", "task"}, resolveLogSources(g, "", false))
	})

	t.Run("explicit empty flag disables filter", func(t *testing.T) {
		assert.Nil(t, resolveLogSources(g, "", true))
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		assert.Equal(t, []string{"task"}, resolveLogSources(g, "task", true))
	})
}

func TestResolveInterval(t *testing.T) {
	g, _, _ := testGlobals(nil)

	d, cliErr := resolveInterval(g, 0)
	require.Nil(t, cliErr)
	assert.Equal(t, 5*time.Second, d)

	d, cliErr = resolveInterval(g, 2*time.Second)
	require.Nil(t, cliErr)
	assert.Equal(t, 2*time.Second, d)

	g.Config.Defaults.Interval = "bogus"
	_, cliErr = resolveInterval(g, 0)
	require.NotNil(t, cliErr)
	assert.Equal(t, "INVALID_FLAGS", cliErr.Code)
}

func TestGlobalsConfigFallbacks(t *testing.T) {
	cfg := config.Default()
	cfg.URL = "http://airflow:8080"
	cfg.Username = "admin"
	cfg.Password = "secret"
	cfg.Quiet = true

	g := NewGlobalsWithConfig(&CLI{Format: "text"}, cfg)
	assert.Equal(t, "http://airflow:8080", g.URL)
	assert.Equal(t, "admin", g.User)
	assert.Equal(t, "secret", g.Password)
	assert.True(t, g.Quiet)

	// Explicit flags win over config
	g = NewGlobalsWithConfig(&CLI{Format: "text", URL: "http://other:8080", User: "bob", Password: "pw"}, cfg)
	assert.Equal(t, "http://other:8080", g.URL)
	assert.Equal(t, "bob", g.User)
}

func TestOutputErrorCommonText(t *testing.T) {
	g, out, errOut := testGlobals(nil)

	err := outputErrorCommon(g, "AUTH_FAILED", "bad credentials", "check --user")
	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [AUTH_FAILED]: bad credentials")
	assert.Contains(t, errOut.String(), "Hint: check --user")
}

func TestOutputErrorCommonNDJSON(t *testing.T) {
	g, out, _ := testGlobals(nil)
	g.Format = "ndjson"

	err := outputErrorCommon(g, "TRIGGER_FAILED", "HTTP 409")
	require.Error(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, "error", m["type"])
	assert.Equal(t, "TRIGGER_FAILED", m["code"])
	assert.Equal(t, "HTTP 409", m["message"])
}

func TestVersionCmd(t *testing.T) {
	g, out, _ := testGlobals(nil)

	require.NoError(t, (&VersionCmd{}).Run(g))
	assert.Contains(t, out.String(), "dagtail version")
}

// airflowStub serves a minimal happy-path API: auth, trigger, one task
// that succeeds immediately.
func airflowStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	})
	mux.HandleFunc("POST /api/v2/dags/etl/dagRuns", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"dag_run_id": "r1"})
	})
	mux.HandleFunc("GET /api/v2/dags/etl/dagRuns/r1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"dag_run_id": "r1", "state": "success"})
	})
	mux.HandleFunc("GET /api/v2/dags/etl/dagRuns/r1/taskInstances", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"task_instances": []map[string]string{{"task_id": "t1", "state": "success"}},
		})
	})
	mux.HandleFunc("GET /api/v2/dags/etl/dagRuns/r1/taskInstances/t1/logs/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"timestamp": "2024-01-01T00:00:00", "logger": "task", "level": "info", "event": "all done"},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestRunCmdEndToEnd(t *testing.T) {
	srv := airflowStub(t)
	defer srv.Close()

	g, out, errOut := testGlobals(nil)
	g.URL = srv.URL
	g.User = "admin"
	g.Password = "admin"

	cmd := &RunCmd{DAG: "etl", Interval: time.Millisecond}
	require.NoError(t, cmd.Run(g))

	assert.Contains(t, out.String(), "DAG Run ID: r1")
	assert.Contains(t, out.String(), "2024-01-01T00:00:00 - t1: [INFO] all done")
	assert.Contains(t, out.String(), "DAG finished with state: success")
	assert.Empty(t, errOut.String())
}

func TestRunCmdAuthFailureExitsNonZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	g, _, errOut := testGlobals(nil)
	g.URL = srv.URL
	g.User = "admin"
	g.Password = "wrong"

	cmd := &RunCmd{DAG: "etl", Interval: time.Millisecond}
	require.Error(t, cmd.Run(g))
	assert.Contains(t, errOut.String(), "AUTH_FAILED")
}

func TestRunCmdMonitorAbortStillExitsZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	})
	mux.HandleFunc("POST /api/v2/dags/etl/dagRuns", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"dag_run_id": "r1"})
	})
	mux.HandleFunc("GET /api/v2/dags/etl/dagRuns/r1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	g, _, errOut := testGlobals(nil)
	g.URL = srv.URL
	g.User = "admin"
	g.Password = "admin"

	cmd := &RunCmd{DAG: "etl", Interval: time.Millisecond}
	require.NoError(t, cmd.Run(g))
	assert.Contains(t, errOut.String(), "monitoring error")
}

func TestRunCmdMissingDAG(t *testing.T) {
	g, _, errOut := testGlobals(nil)

	cmd := &RunCmd{}
	require.Error(t, cmd.Run(g))
	assert.Contains(t, errOut.String(), "INVALID_FLAGS")
}

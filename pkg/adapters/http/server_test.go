package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/testutils"
	apihttp "github.com/aretw0/interviewer/pkg/adapters/http"
	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/aretw0/interviewer/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server  *httptest.Server
	store   *memory.Store
	backend *memory.Generator
}

func newFixture(t *testing.T, sink ports.LogSink) *fixture {
	t.Helper()
	store := memory.NewStore()
	if sink == nil {
		sink = store
	}
	backend := testutils.ScriptedBackend(t, "Хороший кандидат")

	var api *apihttp.Server
	mgr, err := session.NewManager(func(p interviewer.Profile, input ports.InputSource) (*interviewer.Engine, error) {
		return interviewer.New(p, backend, input, sink, interviewer.WithLifecycleHooks(api.Hooks()))
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "interviewer_probe_total", Help: "probe"}))

	api = apihttp.NewServer(mgr,
		apihttp.WithLogReader(store),
		apihttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		apihttp.WithVersion("1.2.3"),
	)
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return &fixture{server: srv, store: store, backend: backend}
}

func (f *fixture) post(t *testing.T, path string, body any) (*http.Response, apihttp.InterviewResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(f.server.URL+path, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apihttp.InterviewResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func (f *fixture) start(t *testing.T) apihttp.InterviewResponse {
	t.Helper()
	resp, out := f.post(t, "/interviews", apihttp.StartRequest{
		ParticipantName: "Alex", Position: "Data Analyst", TargetGrade: "Junior", Experience: "SQL",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return out
}

func TestServer_InterviewFlow(t *testing.T) {
	f := newFixture(t, nil)

	started := f.start(t)
	assert.NotEmpty(t, started.ID)
	assert.True(t, started.Waiting)
	assert.Contains(t, started.Message, "Data Analyst")
	assert.Equal(t, 1, started.Difficulty)

	resp, out := f.post(t, "/interviews/"+started.ID+"/messages", apihttp.MessageRequest{Message: "JOIN объединяет таблицы"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Вопрос 1", out.Message)
	assert.Equal(t, 1, out.TurnCount)

	resp, out = f.post(t, "/interviews/"+started.ID+"/finish", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Done)
	assert.True(t, out.Stopped)
	assert.Equal(t, "Хороший кандидат", out.Feedback)
	require.NotEmpty(t, out.LogID)

	get, err := http.Get(f.server.URL + "/interviews/" + started.ID)
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)

	logResp, err := http.Get(f.server.URL + "/logs/" + out.LogID)
	require.NoError(t, err)
	defer logResp.Body.Close()
	require.Equal(t, http.StatusOK, logResp.StatusCode)
	var doc domain.LogDocument
	require.NoError(t, json.NewDecoder(logResp.Body).Decode(&doc))
	assert.Equal(t, "Alex", doc.ParticipantName)
	assert.Len(t, doc.Turns, 2)

	listResp, err := http.Get(f.server.URL + "/logs")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var ids []string
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&ids))
	assert.Equal(t, []string{out.LogID}, ids)

	resp, _ = f.post(t, "/interviews/"+started.ID+"/messages", apihttp.MessageRequest{Message: "late"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_BadRequests(t *testing.T) {
	f := newFixture(t, nil)

	resp, _ := f.post(t, "/interviews", map[string]string{"position": "QA"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := http.Post(f.server.URL+"/interviews", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	started := f.start(t)
	resp, _ = f.post(t, "/interviews/"+started.ID+"/messages", apihttp.MessageRequest{Message: "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.post(t, "/interviews/unknown/messages", apihttp.MessageRequest{Message: "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	logResp, err := http.Get(f.server.URL + "/logs/missing")
	require.NoError(t, err)
	logResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, logResp.StatusCode)
}

type brokenSink struct{}

func (brokenSink) Persist(context.Context, *domain.LogDocument) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestServer_PersistenceFailureReturnsFeedback(t *testing.T) {
	f := newFixture(t, brokenSink{})
	started := f.start(t)

	resp, err := http.Post(f.server.URL+"/interviews/"+started.ID+"/finish", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body apihttp.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Хороший кандидат", body.Feedback)
	assert.Contains(t, body.Error, "bucket unavailable")
}

func TestServer_InfoHealthGraphMetrics(t *testing.T) {
	f := newFixture(t, nil)

	for path, want := range map[string]string{
		"/health":  `"status":"ok"`,
		"/info":    `"version":"1.2.3"`,
		"/graph":   `"label":"terminate"`,
		"/metrics": "interviewer_probe_total",
	} {
		resp, err := http.Get(f.server.URL + path)
		require.NoError(t, err, path)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), want, path)
	}
}

func TestServer_SubscribeEvents(t *testing.T) {
	f := newFixture(t, nil)
	started := f.start(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.server.URL+"/interviews/"+started.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	go func() {
		resp, err := http.Post(f.server.URL+"/interviews/"+started.ID+"/messages", "application/json",
			strings.NewReader(`{"message":"answer"}`))
		if err == nil {
			resp.Body.Close()
		}
	}()

	var events []string
	for lines.Scan() {
		line := lines.Text()
		if data, ok := strings.CutPrefix(line, "data: "); ok && data != "connected" {
			events = append(events, data)
		}
		if len(events) == 2 {
			break
		}
	}
	require.Len(t, events, 2)
	assert.Contains(t, events[0], `"type":"verdict"`)
	assert.Contains(t, events[1], `"type":"turn_recorded"`)
}

func TestServer_SubscribeUnknown(t *testing.T) {
	f := newFixture(t, nil)
	resp, err := http.Get(f.server.URL + "/interviews/nope/events")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/interviewer/internal/cli"
	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/internal/testutils"
	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/prompts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, in string) (*cli.App, *memory.Generator, *memory.Store, *bytes.Buffer) {
	t.Helper()
	gen := testutils.ScriptedBackend(t, "## Итог\nНеплохо")
	store := memory.NewStore()
	out := &bytes.Buffer{}
	return &cli.App{
		Config:    testConfig(),
		Logger:    logging.NewNop(),
		In:        strings.NewReader(in),
		Out:       out,
		Generator: gen,
		Sink:      store,
	}, gen, store, out
}

func TestApp_RunInterview(t *testing.T) {
	app, gen, store, out := newApp(t, "Горутины легче потоков\n")

	require.NoError(t, app.RunInterview(context.Background(), cli.RunOptions{NoBanner: true}))

	// End of input stops the interview with the canonical keyword.
	assert.Contains(t, out.String(), "Вопрос 1")
	assert.Contains(t, out.String(), "## Итог")
	assert.Contains(t, out.String(), "(2 turns)")
	assert.Equal(t, 1, testutils.FeedbackCalls(gen))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 1)
	doc, err := store.Load(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Горутины легче потоков", doc.Turns[0].UserMessage)
	assert.Equal(t, "стоп", doc.Turns[1].UserMessage)
}

func TestApp_RunInterview_JSON(t *testing.T) {
	app, _, _, out := newApp(t, `{"message":"exit"}`+"\n")

	require.NoError(t, app.RunInterview(context.Background(), cli.RunOptions{JSON: true}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], `"type":"question"`)
	assert.Contains(t, lines[len(lines)-1], `"type":"finished"`)
}

func TestApp_RunInterview_RequiresProfile(t *testing.T) {
	app, _, _, _ := newApp(t, "")
	app.Config.Interview.Position = ""

	assert.Error(t, app.RunInterview(context.Background(), cli.RunOptions{NoBanner: true}))
}

func TestApp_Simulate(t *testing.T) {
	app, gen, store, out := newApp(t, "")
	gen.On(memory.ForPrompt(prompts.CandidateSystemPrompt), memory.Reply("Каналы синхронизируют горутины"))

	require.NoError(t, app.Simulate(context.Background(), cli.SimulateOptions{MaxAnswers: 2}))

	assert.Contains(t, out.String(), "Каналы синхронизируют горутины")
	assert.Contains(t, out.String(), "(3 turns)")
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestApp_Logs(t *testing.T) {
	app, _, store, out := newApp(t, "")
	ctx := context.Background()

	require.NoError(t, app.ListLogs(ctx))
	assert.Contains(t, out.String(), "No interview logs found.")

	id, err := store.Persist(ctx, &domain.LogDocument{
		ParticipantName: "Ann",
		Turns:           []domain.TurnRecord{{TurnID: 1, AgentVisibleMessage: "Q?", UserMessage: "A."}},
		FinalFeedback:   "Good",
	})
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, app.ListLogs(ctx))
	assert.Equal(t, id+"\n", out.String())

	out.Reset()
	require.NoError(t, app.ShowLog(ctx, id, false))
	assert.Contains(t, out.String(), "# Interview "+id)
	assert.Contains(t, out.String(), "**Candidate:** A.")

	out.Reset()
	require.NoError(t, app.ShowLog(ctx, id, true))
	var doc domain.LogDocument
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "Good", doc.FinalFeedback)

	assert.ErrorIs(t, app.ShowLog(ctx, "missing", false), domain.ErrLogNotFound)
}

func TestApp_NewAPI(t *testing.T) {
	app, gen, store, _ := newApp(t, "")
	reg := prometheus.NewRegistry()

	handler, err := app.NewAPI(gen, store, reg, "test")
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/interviews", "application/json",
		strings.NewReader(`{"position":"Go Developer","target_grade":"Middle"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "interviewer_node_visits_total")
}

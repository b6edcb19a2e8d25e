package runner_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/interviewer/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleSource_ReadsLines(t *testing.T) {
	var out bytes.Buffer
	src := runner.NewConsoleSource(strings.NewReader("first answer\n\x1b[31mred\n"), &out,
		runner.WithConsoleRenderer(func(s string) (string, error) { return "**" + s + "**", nil }))

	got, err := src.Next(context.Background(), "Привет!")
	require.NoError(t, err)
	assert.Equal(t, "first answer", got)

	got, err = src.Next(context.Background(), "Вопрос 1")
	require.NoError(t, err)
	assert.Equal(t, "red", got)

	_, err = src.Next(context.Background(), "Вопрос 2")
	assert.ErrorIs(t, err, io.EOF)

	assert.Contains(t, out.String(), "**Привет!**")
	assert.Contains(t, out.String(), "**Вопрос 1**")
	assert.Contains(t, out.String(), "> ")
}

func TestConsoleSource_LastLineWithoutNewline(t *testing.T) {
	src := runner.NewConsoleSource(strings.NewReader("tail"), io.Discard)
	got, err := src.Next(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "tail", got)
}

func TestConsoleSource_RejectsOversizedInput(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "4")
	var out bytes.Buffer
	src := runner.NewConsoleSource(strings.NewReader("too long\nok\n"), &out)

	got, err := src.Next(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Contains(t, out.String(), "Please try again")
}

func TestConsoleSource_Cancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	src := runner.NewConsoleSource(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := src.Next(ctx, "q")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

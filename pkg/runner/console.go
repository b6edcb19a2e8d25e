package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ContentRenderer transforms interviewer text before it is printed,
// e.g. markdown to ANSI.
type ContentRenderer func(string) (string, error)

// ConsoleSource reads candidate messages line by line and prints the
// interviewer's message before each read.
type ConsoleSource struct {
	reader   *bufio.Reader
	writer   io.Writer
	renderer ContentRenderer
	prompt   string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// ConsoleOption configures a ConsoleSource.
type ConsoleOption func(*ConsoleSource)

// WithConsoleRenderer configures the content renderer.
func WithConsoleRenderer(renderer ContentRenderer) ConsoleOption {
	return func(c *ConsoleSource) {
		c.renderer = renderer
	}
}

// WithConsolePrompt replaces the "> " input marker.
func WithConsolePrompt(prompt string) ConsoleOption {
	return func(c *ConsoleSource) {
		c.prompt = prompt
	}
}

// NewConsoleSource creates a source over r, printing to w.
func NewConsoleSource(r io.Reader, w io.Writer, opts ...ConsoleOption) *ConsoleSource {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	c := &ConsoleSource{
		reader: bufio.NewReader(r),
		writer: w,
		prompt: "> ",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConsoleSource) initPump() {
	c.startOnce.Do(func() {
		c.inputChan = make(chan inputResult)
		go c.pump()
	})
}

// pump reads in the background so Next can honour cancellation.
func (c *ConsoleSource) pump() {
	for {
		text, err := c.reader.ReadString('\n')
		if text != "" {
			c.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(c.inputChan)
				return
			}
			c.inputChan <- inputResult{err: err}
			// Backoff for persistent read failures.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Next prints the interviewer message and blocks for one line.
// It returns io.EOF once the reader is exhausted.
func (c *ConsoleSource) Next(ctx context.Context, message string) (string, error) {
	c.initPump()
	c.print(message)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(c.writer, c.prompt)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-c.inputChan:
			if !ok {
				fmt.Fprintln(c.writer)
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(c.writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (c *ConsoleSource) print(message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	output := message
	if c.renderer != nil {
		if rendered, err := c.renderer(message); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(c.writer, strings.TrimSpace(output))
}

package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// Event is one JSON line written by JSONSource and the Runner in JSON mode.
type Event struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	LogID    string `json:"log_id,omitempty"`
	Turns    int    `json:"turns,omitempty"`
	Error    string `json:"error,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

const (
	EventQuestion = "question"
	EventFinished = "finished"
	EventError    = "error"
)

// JSONSource implements ports.InputSource over JSON-Lines.
// Each interviewer message is emitted as {"type":"question","text":...}; each
// input line may be {"message": "..."}, a JSON string or plain text.
type JSONSource struct {
	reader  *bufio.Reader
	encoder *json.Encoder
}

// NewJSONSource creates a JSON-Lines source.
func NewJSONSource(r io.Reader, w io.Writer) *JSONSource {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONSource{
		reader:  bufio.NewReader(r),
		encoder: json.NewEncoder(w),
	}
}

func (s *JSONSource) Next(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.encoder.Encode(Event{Type: EventQuestion, Text: message}); err != nil {
		return "", err
	}

	text, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return "", err
	}
	return SanitizeInput(decodeLine(strings.TrimSpace(text)))
}

func decodeLine(text string) string {
	var msg struct {
		Message string `json:"message"`
	}
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &msg); err == nil {
			return msg.Message
		}
	}
	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val
	}
	return text
}

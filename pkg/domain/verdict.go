package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Intent is the classifier's reading of what the candidate is doing.
type Intent string

const (
	IntentTechnicalAnswer Intent = "technical_answer"
	IntentMetaQuestion    Intent = "meta_question"
	IntentStop            Intent = "stop"
	IntentOffTopic        Intent = "off_topic"
)

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentTechnicalAnswer, IntentMetaQuestion, IntentStop, IntentOffTopic:
		return true
	}
	return false
}

// Quality grades a candidate answer.
type Quality string

const (
	QualityWeak   Quality = "weak"
	QualityOK     Quality = "ok"
	QualityStrong Quality = "strong"
)

// Valid reports whether q is one of the known quality labels.
func (q Quality) Valid() bool {
	switch q {
	case QualityWeak, QualityOK, QualityStrong:
		return true
	}
	return false
}

// FallbackReasonEmpty is the reasoning used when the classifier got nothing back.
const FallbackReasonEmpty = "empty response"

// Verdict is the structured classification of one candidate message.
// It is always fully populated; see FallbackVerdict.
type Verdict struct {
	Intent        Intent  `json:"intent" mapstructure:"intent"`
	Hallucination bool    `json:"hallucination" mapstructure:"hallucination"`
	Quality       Quality `json:"answer_quality" mapstructure:"answer_quality"`
	Reasoning     string  `json:"reasoning" mapstructure:"reasoning"`
	CorrectFact   *string `json:"correct_fact" mapstructure:"correct_fact"`
}

// FallbackVerdict is the fixed verdict substituted whenever classification
// cannot complete. An empty reason is replaced with FallbackReasonEmpty.
func FallbackVerdict(reason string) Verdict {
	if strings.TrimSpace(reason) == "" {
		reason = FallbackReasonEmpty
	}
	return Verdict{
		Intent:        IntentOffTopic,
		Hallucination: false,
		Quality:       QualityWeak,
		Reasoning:     reason,
		CorrectFact:   nil,
	}
}

// IsFallbackShape reports whether v carries the fallback intent/quality/hallucination triple.
func (v Verdict) IsFallbackShape() bool {
	return v.Intent == IntentOffTopic && !v.Hallucination && v.Quality == QualityWeak && v.CorrectFact == nil
}

// String renders the verdict as compact JSON for audit trails.
func (v Verdict) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", struct {
			Intent  Intent
			Quality Quality
		}{v.Intent, v.Quality})
	}
	return string(data)
}

// ErrEmptyVerdict is returned by ParseVerdict for blank input.
var ErrEmptyVerdict = errors.New("empty verdict payload")

var requiredVerdictFields = []string{"intent", "hallucination", "answer_quality", "reasoning"}

// ParseVerdict decodes a classifier response strictly.
// The payload may be wrapped in a markdown code fence. All of intent,
// hallucination, answer_quality and reasoning are required and may not be
// null, reasoning may not be blank and enum values are validated; correct_fact
// is optional.
func ParseVerdict(raw string) (Verdict, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return Verdict{}, ErrEmptyVerdict
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return Verdict{}, fmt.Errorf("invalid json: %w", err)
	}

	// Some models answer with "quality" instead of "answer_quality".
	if _, ok := fields["answer_quality"]; !ok {
		if q, ok := fields["quality"]; ok {
			fields["answer_quality"] = q
		}
	}

	var missing []string
	for _, key := range requiredVerdictFields {
		if val, ok := fields[key]; !ok || val == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Verdict{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	var v Verdict
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &v,
		TagName: "mapstructure",
	})
	if err != nil {
		return Verdict{}, err
	}
	if err := dec.Decode(fields); err != nil {
		return Verdict{}, fmt.Errorf("schema mismatch: %w", err)
	}

	if !v.Intent.Valid() {
		return Verdict{}, fmt.Errorf("unknown intent %q", v.Intent)
	}
	if !v.Quality.Valid() {
		return Verdict{}, fmt.Errorf("unknown answer_quality %q", v.Quality)
	}
	if strings.TrimSpace(v.Reasoning) == "" {
		return Verdict{}, errors.New("blank reasoning")
	}
	if v.CorrectFact != nil && strings.TrimSpace(*v.CorrectFact) == "" {
		v.CorrectFact = nil
	}
	return v, nil
}

// StripCodeFence trims whitespace and removes a surrounding ``` fence if present.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

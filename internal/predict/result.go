package predict

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// UnknownLabel is shown when the service omits a label.
const UnknownLabel = "Unknown"

// Result is a normalized prediction.
type Result struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"` // 0..1
	Explanation string  `json:"explanation,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// Percent is the confidence as a rounded percentage.
func (r Result) Percent() int { return Percent(r.Confidence) }

// Accent is the cosmetic classification of the result badge.
func (r Result) Accent() Accent { return AccentFor(r.Label) }

// Normalize treats confidences above 1 as percentages.
func Normalize(c float64) float64 {
	if c > 1 {
		return c / 100
	}
	return c
}

// Percent rounds an already normalized confidence to a whole percentage,
// halves rounding up.
func Percent(c float64) int {
	return int(math.Floor(c*100 + 0.5))
}

// Accent selects the badge styling for a label.
type Accent int

const (
	AccentNeutral Accent = iota
	AccentWarning
)

func (a Accent) String() string {
	if a == AccentWarning {
		return "warning"
	}
	return "neutral"
}

var aiPattern = regexp.MustCompile(`(?i)ai`)

// AccentFor returns AccentWarning when the label mentions "ai" in any case.
func AccentFor(label string) Accent {
	if aiPattern.MatchString(label) {
		return AccentWarning
	}
	return AccentNeutral
}

// wireResult is the loosely typed response body; services disagree on
// whether confidence is a number or a string.
type wireResult struct {
	Label       json.RawMessage `json:"label"`
	Confidence  json.RawMessage `json:"confidence"`
	Explanation json.RawMessage `json:"explanation"`
	Message     json.RawMessage `json:"message"`
}

// Decode parses a response body into a normalized Result.
func Decode(body []byte) (Result, error) {
	var w wireResult
	if err := json.Unmarshal(body, &w); err != nil {
		return Result{}, err
	}
	return Result{
		Label:       labelOf(w.Label),
		Confidence:  Normalize(looseNumber(w.Confidence)),
		Explanation: looseString(w.Explanation),
		Message:     looseString(w.Message),
	}, nil
}

// labelOf stringifies the label; missing, null, empty, false and 0 all read
// as UnknownLabel.
func labelOf(raw json.RawMessage) string {
	var v any
	if len(raw) > 0 && json.Unmarshal(raw, &v) == nil {
		switch t := v.(type) {
		case bool:
			if !t {
				return UnknownLabel
			}
		case float64:
			if t == 0 {
				return UnknownLabel
			}
		}
	}
	if s := looseString(raw); s != "" {
		return s
	}
	return UnknownLabel
}

func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(string(raw))
	}
}

func looseNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

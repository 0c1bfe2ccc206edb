package questionnaire

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Helpers for reading untyped decoded JSON. None of them fail: a value of the
// wrong shape reads as absent.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// text reads v the way a falsy-or-default lookup would: empty strings, nil,
// false and zero read as "".
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 || math.IsNaN(t) {
			return ""
		}
	}
	return Stringify(v)
}

func optString(v any) (*string, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	return &s, true
}

func optBool(v any) (*bool, bool) {
	b, ok := v.(bool)
	if !ok {
		return nil, false
	}
	return &b, true
}

func optFloat(v any) (*float64, bool) {
	switch t := v.(type) {
	case float64:
		return &t, true
	case int:
		f := float64(t)
		return &f, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, false
		}
		return &f, true
	}
	return nil, false
}

func optInt(v any) (*int, bool) {
	f, ok := optFloat(v)
	if !ok || *f != math.Trunc(*f) || *f < math.MinInt || *f >= math.MaxInt {
		return nil, false
	}
	i := int(*f)
	return &i, true
}

// Stringify renders an answer value the way it is shown inside question text:
// numbers without trailing zeros, lists joined with commas, nil as "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ",")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// FormatAnswer renders an answer for summaries; lists are joined with ", ".
func FormatAnswer(v any) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ", ")
	}
	return Stringify(v)
}

// answerStrings wraps a scalar answer in a one-element list and stringifies
// every element.
func answerStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			out[i] = Stringify(e)
		}
		return out
	}
	return []string{Stringify(v)}
}

func isEmptyAnswer(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

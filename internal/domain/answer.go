package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AnswerKind tags the shape held by an Answer.
type AnswerKind int

const (
	// AnswerInvalid is a value with no usable shape (null, number, object, mixed array).
	AnswerInvalid AnswerKind = iota
	AnswerText
	AnswerBool
	AnswerList
)

// Answer is a submitted or correct answer: a string, a boolean, or an
// ordered list of strings.
type Answer struct {
	Kind AnswerKind
	Text string
	Bool bool
	List []string

	raw json.RawMessage
}

func TextAnswer(s string) Answer { return Answer{Kind: AnswerText, Text: s} }

func BoolAnswer(b bool) Answer { return Answer{Kind: AnswerBool, Bool: b} }

func ListAnswer(items ...string) Answer {
	if items == nil {
		items = []string{}
	}
	return Answer{Kind: AnswerList, List: items}
}

// UnmarshalJSON classifies the value by its JSON shape. It never fails:
// unsupported shapes become AnswerInvalid and keep their raw bytes.
func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = shapeOf(data)
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerBool:
		return json.Marshal(a.Bool)
	case AnswerList:
		if a.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.List)
	}
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	return []byte("null"), nil
}

// String renders the answer the way a loosely typed client would stringify it.
func (a Answer) String() string {
	switch a.Kind {
	case AnswerText:
		return a.Text
	case AnswerBool:
		if a.Bool {
			return "true"
		}
		return "false"
	case AnswerList:
		return strings.Join(a.List, ",")
	}
	return string(a.raw)
}

// DecodeAnswer reads a stored correct answer. A JSON string whose content is
// itself JSON (`"true"`, `"[\"a\",\"b\"]"`) is decoded once more; when that
// fails the string is used as-is.
func DecodeAnswer(raw json.RawMessage) Answer {
	a := shapeOf(raw)
	if a.Kind == AnswerText {
		return ParseAnswerText(a.Text)
	}
	return a
}

// ParseAnswerText decodes s as JSON, keeping s as plain text when it does
// not decode to a string, boolean or string list.
func ParseAnswerText(s string) Answer {
	decoded := shapeOf(json.RawMessage(s))
	if decoded.Kind == AnswerInvalid {
		return TextAnswer(s)
	}
	return decoded
}

// DecodeOptions reads an options list that may arrive as an array or as a
// JSON-encoded string. Anything else yields nil.
func DecodeOptions(raw json.RawMessage) []string {
	a := DecodeAnswer(raw)
	if a.Kind == AnswerList {
		return a.List
	}
	return nil
}

func shapeOf(data []byte) Answer {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Answer{}
	}
	invalid := Answer{raw: append(json.RawMessage(nil), trimmed...)}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return invalid
		}
		return TextAnswer(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return invalid
		}
		return BoolAnswer(b)
	case '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return invalid
		}
		return ListAnswer(items...)
	}
	return invalid
}

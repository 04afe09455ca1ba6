package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decode failure causes. A *DecodeError wraps exactly one of these or a JSON
// syntax error.
var (
	ErrNotArray       = errors.New("expected array")
	ErrNotObject      = errors.New("expected object")
	ErrMissingField   = errors.New("missing required field")
	ErrUnknownField   = errors.New("unknown field")
	ErrDuplicateField = errors.New("duplicate field")
	ErrWrongType      = errors.New("wrong type")
)

// DecodeError reports malformed or structurally invalid wire data.
type DecodeError struct {
	Path  string // location of the offending value, e.g. "[0].tasks[1]"
	Field string // offending field name, if any
	Err   error
}

func (e *DecodeError) Error() string {
	var b bytes.Buffer
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "field %q: ", e.Field)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// JSON value kinds as reported in wrong-type errors.
const (
	kindObject  = "object"
	kindArray   = "array"
	kindString  = "string"
	kindBoolean = "boolean"
	kindNumber  = "number"
	kindNull    = "null"
	kindEmpty   = "empty input"
)

// EncodeList encodes every element of list, in order, with encode.
func EncodeList[T any](list *List[T], encode func(T) (json.RawMessage, error)) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, list.Len())
	for _, v := range list.All() {
		raw, err := encode(v)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// DecodeList decodes a JSON array into a new list, appending elements in wire
// order. path locates data in the enclosing document and prefixes element
// paths passed to decode.
func DecodeList[T any](data json.RawMessage, path string, decode func(json.RawMessage, string) (T, error)) (*List[T], error) {
	if kind := jsonKind(data); kind != kindArray {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("%w, got %s", ErrNotArray, kind)}
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	list := NewList[T]()
	for i, raw := range raws {
		v, err := decode(raw, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		list.Append(v)
	}
	return list, nil
}

// encodeArray renders list as an indented JSON array with a trailing newline.
func encodeArray[T any](list *List[T], encode func(T) (json.RawMessage, error)) ([]byte, error) {
	raws, err := EncodeList(list, encode)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// fieldSpec describes one field of a strictly decoded record.
type fieldSpec struct {
	name    string
	aliases []string
	kind    string
	target  any
}

// decodeObject decodes a JSON object whose keys must be exactly the fields
// (or their aliases), each present once and of the declared kind.
func decodeObject(data json.RawMessage, path string, fields []fieldSpec) error {
	if kind := jsonKind(data); kind != kindObject {
		return &DecodeError{Path: path, Err: fmt.Errorf("%w, got %s", ErrNotObject, kind)}
	}
	members, err := objectMembers(data)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
			return de
		}
		return &DecodeError{Path: path, Err: err}
	}

	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		byName[f.name] = i
		for _, alias := range f.aliases {
			byName[alias] = i
		}
	}

	seen := make([]string, len(fields))
	for _, m := range members {
		key := m.key
		i, ok := byName[key]
		if !ok {
			return &DecodeError{Path: path, Field: key, Err: ErrUnknownField}
		}
		if seen[i] != "" {
			return &DecodeError{Path: path, Field: key, Err: fmt.Errorf("%w, also given as %q", ErrDuplicateField, seen[i])}
		}
		seen[i] = key

		raw := m.value
		f := fields[i]
		if got := jsonKind(raw); got != f.kind {
			return &DecodeError{Path: path, Field: key, Err: fmt.Errorf("%w: want %s, got %s", ErrWrongType, f.kind, got)}
		}
		if err := json.Unmarshal(raw, f.target); err != nil {
			return &DecodeError{Path: path, Field: key, Err: err}
		}
	}

	for i, f := range fields {
		if seen[i] == "" {
			return &DecodeError{Path: path, Field: f.name, Err: ErrMissingField}
		}
	}
	return nil
}

type member struct {
	key   string
	value json.RawMessage
}

// objectMembers splits a JSON object into its members in document order.
// A key given twice fails with ErrDuplicateField.
func objectMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var members []member
	keys := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		if keys[key] {
			return nil, &DecodeError{Field: key, Err: fmt.Errorf("%w, key repeated", ErrDuplicateField)}
		}
		keys[key] = true
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid character after object")
	}
	return members, nil
}

// jsonKind classifies a JSON value by its first significant byte.
func jsonKind(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return kindEmpty
	}
	switch data[0] {
	case '{':
		return kindObject
	case '[':
		return kindArray
	case '"':
		return kindString
	case 't', 'f':
		return kindBoolean
	case 'n':
		return kindNull
	default:
		return kindNumber
	}
}

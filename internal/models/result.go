// ABOUTME: Result is the outcome of a single subtopic extraction
// ABOUTME: Either Empty or a Code carrying the trimmed code text
package models

import "encoding/json"

// Result holds either nothing (Empty) or a non-empty code string.
// The zero value is Empty.
type Result struct {
	code string
	ok   bool
}

// Empty returns a Result with no code.
func Empty() Result {
	return Result{}
}

// NewCode returns a Result carrying code. An empty code yields Empty.
func NewCode(code string) Result {
	if code == "" {
		return Result{}
	}
	return Result{code: code, ok: true}
}

// IsEmpty reports whether the Result carries no code.
func (r Result) IsEmpty() bool {
	return !r.ok
}

// Value returns the code text and whether it is present.
func (r Result) Value() (string, bool) {
	return r.code, r.ok
}

// String returns the code text, or "" for Empty.
func (r Result) String() string {
	return r.code
}

// MarshalJSON encodes Empty as null and a Code as a JSON string.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.ok {
		return []byte("null"), nil
	}
	return json.Marshal(r.code)
}

// UnmarshalJSON accepts null or a string.
func (r *Result) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*r = Empty()
		return nil
	}
	*r = NewCode(*s)
	return nil
}

// ABOUTME: Tests for the Result sum type
// ABOUTME: Verifies Empty/Code construction and JSON encoding
package models

import (
	"encoding/json"
	"testing"
)

func TestResult_ZeroValueIsEmpty(t *testing.T) {
	var r Result
	if !r.IsEmpty() {
		t.Error("zero Result should be Empty")
	}
	if _, ok := r.Value(); ok {
		t.Error("zero Result should not carry a value")
	}
}

func TestNewCode(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantEmpty bool
	}{
		{name: "code", code: "D3310", wantEmpty: false},
		{name: "empty string", code: "", wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCode(tt.code)
			if r.IsEmpty() != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", r.IsEmpty(), tt.wantEmpty)
			}
			if !tt.wantEmpty {
				v, ok := r.Value()
				if !ok || v != tt.code {
					t.Errorf("Value() = %q, %v; want %q, true", v, ok, tt.code)
				}
			}
		})
	}
}

func TestResult_JSON(t *testing.T) {
	data, err := json.Marshal([]Result{NewCode("D0150"), Empty()})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `["D0150",null]` {
		t.Errorf("Marshal() = %s, want [\"D0150\",null]", data)
	}

	var decoded []Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(decoded) != 2 || decoded[0].String() != "D0150" || !decoded[1].IsEmpty() {
		t.Errorf("Unmarshal() = %+v", decoded)
	}
}

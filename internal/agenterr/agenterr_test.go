package agenterr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestWrap_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeConnection, cause, "store request to %s", "http://localhost:8000")

	if err.Error() != "store request to http://localhost:8000: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find cause")
	}
}

func TestHasCode(t *testing.T) {
	inner := New(CodeInvalidTerm, "unrecognized term %q", "4th Term")
	outer := Wrap(CodeContentGeneration, inner, "generating Maths: Fractions")
	wrapped := fmt.Errorf("run failed: %w", outer)

	tests := []struct {
		name string
		code Code
		want bool
	}{
		{"outer code", CodeContentGeneration, true},
		{"inner code", CodeInvalidTerm, true},
		{"absent code", CodeQueryFailed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(wrapped, tt.code); got != tt.want {
				t.Errorf("HasCode(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}

	if got := CodeOf(wrapped); got != CodeContentGeneration {
		t.Errorf("CodeOf() = %s, want %s", got, CodeContentGeneration)
	}
}

func TestCodeOf_Plain(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
}

func TestToPayload(t *testing.T) {
	p := ToPayload(New(CodeEmptyResult, "create returned no records"))
	if p.Code != CodeEmptyResult || p.Message != "create returned no records" {
		t.Errorf("ToPayload() = %+v", p)
	}

	p = ToPayload(errors.New("boom"))
	if p.Code != CodeQuery || p.Message != "boom" {
		t.Errorf("ToPayload(plain) = %+v", p)
	}

	p = ToPayload(fmt.Errorf("waiting: %w", context.DeadlineExceeded))
	if p.Code != CodeCanceled {
		t.Errorf("ToPayload(deadline) code = %s, want %s", p.Code, CodeCanceled)
	}

	if p := ToPayload(nil); p != (Payload{}) {
		t.Errorf("ToPayload(nil) = %+v", p)
	}
}

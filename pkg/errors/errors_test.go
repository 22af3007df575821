package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidCutoff, "cutoff %v outside [0, 1]", 1.5)

	if err.Code != ErrCodeInvalidCutoff {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidCutoff)
	}
	if !strings.Contains(err.Error(), "INVALID_CUTOFF") {
		t.Errorf("Error() = %q, should contain code", err.Error())
	}
	if !strings.Contains(err.Error(), "1.5") {
		t.Errorf("Error() = %q, should contain formatted message", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("underlying failure")
	err := Wrap(ErrCodeDecode, cause, "decode %s", "bag.png")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
	if !strings.Contains(err.Error(), "underlying failure") {
		t.Errorf("Error() = %q, should contain cause", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidColor, "bad hex"), ErrCodeInvalidColor, true},
		{"different code", New(ErrCodeInvalidColor, "bad hex"), ErrCodeInvalidSize, false},
		{"plain error", stderrors.New("plain"), ErrCodeInternal, false},
		{"wrapped in fmt", fmt.Errorf("ctx: %w", New(ErrCodeArchive, "disk full")), ErrCodeArchive, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeFileNotFound, "missing")); got != ErrCodeFileNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeFileNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidAxis, "unknown axis %q", "x")
	if got := UserMessage(err); strings.Contains(got, "INVALID_AXIS") {
		t.Errorf("UserMessage() = %q, should not contain code prefix", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain failure")
	}
}

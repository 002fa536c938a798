package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrCodeInvalidInput, "count must be at least %d", 2)
	if got := plain.Error(); got != "INVALID_INPUT: count must be at least 2" {
		t.Errorf("Error() = %q", got)
	}

	cause := stderrors.New("connection refused")
	wrapped := Wrap(ErrCodeStoreUnavailable, cause, "connecting to mongodb")
	if got := wrapped.Error(); got != "STORE_UNAVAILABLE: connecting to mongodb: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeSceneNotFound, "scene %s", "abc")

	if !Is(err, ErrCodeSceneNotFound) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is should not match plain errors")
	}

	if got := GetCode(err); got != ErrCodeSceneNotFound {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidFormat, "unsupported format")); got != "unsupported format" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidAlgorithm, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidSceneID, "x"), http.StatusBadRequest},
		{New(ErrCodeSceneNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeStoreUnavailable, "x"), http.StatusServiceUnavailable},
		{New(ErrCodeInternal, "x"), http.StatusInternalServerError},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestValidateSceneID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"uuid", "0b8e61c2-aa74-4f3b-a2b9-111111111111", false},
		{"simple", "my-scene", false},
		{"empty", "", true},
		{"traversal", "../etc/passwd", true},
		{"separator", "a/b", true},
		{"backslash", "a\\b", true},
		{"control char", "bad\x01id", true},
		{"too long", string(make([]byte, 200)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSceneID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSceneID(%q) error = %v, wantErr %t", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSceneID) {
				t.Errorf("error should carry ErrCodeInvalidSceneID, got %v", err)
			}
		})
	}
}

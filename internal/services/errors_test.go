package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("disk full")
	err := Wrap(ErrStorage, "store", "save session", "write meta.json", base)

	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage tag, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToStorage(t *testing.T) {
	err := Wrap(nil, "store", "save", "", nil)
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage fallback, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		marker error
		want   int
	}{
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrValidation, http.StatusBadRequest},
		{ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrNotFound, http.StatusNotFound},
		{ErrTimeout, http.StatusGatewayTimeout},
		{ErrStorage, http.StatusInternalServerError},
		{errors.New("untagged"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := fmt.Errorf("context: %w", tc.marker)
		if got := HTTPStatus(err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.marker, got, tc.want)
		}
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		marker error
		want   string
	}{
		{ErrUnauthorized, "unauthorized"},
		{ErrValidation, "invalid_input"},
		{ErrPayloadTooLarge, "payload_too_large"},
		{ErrNotFound, "not_found"},
		{ErrMediaProcessing, "media_processing"},
		{ErrTimeout, "timeout"},
		{ErrStorage, "storage"},
		{errors.New("untagged"), "internal"},
	}
	for _, tc := range cases {
		err := Wrap(tc.marker, "component", "op", "", nil)
		if tc.marker != nil && !errors.Is(err, tc.marker) {
			// Wrap rewrites nil markers only; tagged errors must survive.
			t.Fatalf("marker lost in wrap: %v", err)
		}
		if got := Category(err); got != tc.want {
			t.Fatalf("Category(%v) = %q, want %q", tc.marker, got, tc.want)
		}
	}
}

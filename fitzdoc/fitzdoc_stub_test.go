//go:build !fitz

package fitzdoc

import (
	"errors"
	"testing"
)

func TestOpenReturnsErrorWhenDisabled(t *testing.T) {
	doc, err := Open("book.epub")
	if err == nil {
		t.Fatal("expected error from Open when MuPDF is disabled")
	}
	if !errors.Is(err, ErrFitzNotEnabled) {
		t.Errorf("expected ErrFitzNotEnabled, got: %v", err)
	}
	if doc != nil {
		t.Error("expected nil document when MuPDF is disabled")
	}
}

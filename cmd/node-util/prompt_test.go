package main

import (
	"errors"
	"testing"

	"github.com/charmbracelet/huh"
)

func TestConfirmRequiresTerminal(t *testing.T) {
	orig := isInteractive
	t.Cleanup(func() { isInteractive = orig })
	isInteractive = func() bool { return false }

	if _, err := confirmWithForm("Replace?"); err == nil {
		t.Fatalf("expected error without a terminal")
	}
}

func TestConfirmAbortCountsAsNo(t *testing.T) {
	origInteractive, origRun := isInteractive, runFormFunc
	t.Cleanup(func() { isInteractive, runFormFunc = origInteractive, origRun })
	isInteractive = func() bool { return true }
	runFormFunc = func(*huh.Form) error { return huh.ErrUserAborted }

	ok, err := confirmWithForm("Replace?")
	if err != nil || ok {
		t.Fatalf("expected declined without error, got %v %v", ok, err)
	}
}

func TestConfirmPropagatesFormError(t *testing.T) {
	origInteractive, origRun := isInteractive, runFormFunc
	t.Cleanup(func() { isInteractive, runFormFunc = origInteractive, origRun })
	isInteractive = func() bool { return true }
	runFormFunc = func(*huh.Form) error { return errors.New("tty closed") }

	if _, err := confirmWithForm("Replace?"); err == nil {
		t.Fatalf("expected error")
	}
}

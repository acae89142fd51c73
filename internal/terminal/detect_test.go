package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withIsTerminal(t *testing.T, fn func(int) bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = fn
	t.Cleanup(func() { isTerminal = orig })
}

func TestIsInteractive_BothTerminals(t *testing.T) {
	withIsTerminal(t, func(int) bool { return true })
	assert.True(t, IsInteractive())
}

func TestIsInteractive_NotATerminal(t *testing.T) {
	calls := 0
	withIsTerminal(t, func(int) bool {
		calls++
		return calls > 1
	})
	assert.False(t, IsInteractive())
}

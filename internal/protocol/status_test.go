package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusStringIsTotal(t *testing.T) {
	want := map[Status]string{
		Unstaged:     "Protocol Unstaged",
		BinOnly:      "Only bin is staged for Protocol, no config",
		ConfigOnly:   "Only config is staged for Protocol, no bin",
		NoConfig:     "No config.toml for Protocol",
		WrongNetwork: "chainspec.toml is for wrong network",
		Staged:       "Protocol Staged",
	}
	for status, text := range want {
		assert.Equal(t, text, status.String())
		assert.NotEqual(t, "UNKNOWN", status.Name())
	}
	assert.Equal(t, "Status unknown", Status(0).String())
	assert.Equal(t, "UNKNOWN", Status(99).Name())
}

func TestStatusPredicates(t *testing.T) {
	cases := []struct {
		status      Status
		recoverable bool
		actionable  bool
	}{
		{Unstaged, true, true},
		{NoConfig, true, true},
		{BinOnly, false, false},
		{ConfigOnly, false, false},
		{WrongNetwork, true, false},
		{Staged, true, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.recoverable, tc.status.Recoverable(), tc.status.Name())
		assert.Equal(t, tc.actionable, tc.status.Actionable(), tc.status.Name())
	}
}

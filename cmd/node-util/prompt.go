package main

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/node-util/internal/messages"
	"github.com/conn-castle/node-util/internal/terminal"
)

var (
	confirmFunc   = confirmWithForm
	isInteractive = terminal.IsInteractive
	runFormFunc   = func(form *huh.Form) error { return form.Run() }
)

// confirmWithForm asks a yes/no question on the terminal. Aborting the form counts as no.
func confirmWithForm(title string) (bool, error) {
	if !isInteractive() {
		return false, errors.New(messages.PromptRequiresTerminal)
	}
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative(messages.PromptAffirmative).
				Negative(messages.PromptNegative).
				Value(&confirmed),
		),
	)
	form.WithProgramOptions(tea.WithOutput(os.Stderr))
	if err := runFormFunc(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var (
	// ErrSelection indicates an invalid form selection. Nothing has been
	// written when it is returned.
	ErrSelection = errors.New("invalid form selection")

	// ErrAborted indicates the user interrupted an interactive prompt.
	ErrAborted = errors.New("selection aborted")
)

// selectByIndex returns the label at 1-based index n.
func selectByIndex(labels []string, n int) (string, error) {
	if n < 1 || n > len(labels) {
		return "", fmt.Errorf("%w: index %d out of range 1-%d", ErrSelection, n, len(labels))
	}
	return labels[n-1], nil
}

// prompter abstracts the interactive prompt so command logic can be
// tested without a real terminal.
type prompter interface {
	Select(message string, options []string) (int, error)
}

// chooseForm asks the prompter to pick one label.
func chooseForm(labels []string, p prompter) (string, error) {
	idx, err := p.Select("Choose a form to export:", labels)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(labels) {
		return "", fmt.Errorf("%w: no option chosen", ErrSelection)
	}
	return labels[idx], nil
}

type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string) (int, error) {
	var out string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, translateSurveyErr(err)
	}
	return indexOf(options, out), nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

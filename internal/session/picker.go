package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted the prompt (Ctrl+C).
var ErrAborted = errors.New("session: aborted")

// Picker asks the user to choose one of options and returns its index.
type Picker interface {
	Pick(ctx context.Context, message string, options []string) (int, error)
}

// SurveyPicker prompts on the terminal.
type SurveyPicker struct {
	PageSize int
}

// Pick implements Picker.
func (p SurveyPicker) Pick(ctx context.Context, message string, options []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out int
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: p.PageSize,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return 0, ErrAborted
		}
		return 0, err
	}
	return out, nil
}

const doneOption = "Done"

// Interactive lets the user click triggers until they pick Done. It returns
// the number of clicks applied.
func (s *Session) Interactive(ctx context.Context, picker Picker) (int, error) {
	clicks := 0
	for {
		triggers := s.Triggers()
		options := make([]string, 0, len(triggers)+1)
		for _, t := range triggers {
			options = append(options, t.Label)
		}
		options = append(options, doneOption)

		choice, err := picker.Pick(ctx, "Click", options)
		if err != nil {
			return clicks, err
		}
		if choice < 0 || choice >= len(options) {
			return clicks, fmt.Errorf("session: choice %d out of range", choice)
		}
		if choice == len(triggers) {
			return clicks, nil
		}
		if _, err := s.click(ctx, triggers[choice].Node, triggers[choice].Label); err != nil {
			return clicks, err
		}
		clicks++
	}
}

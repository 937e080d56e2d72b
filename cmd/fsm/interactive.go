package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/geange/fsm"
	"github.com/geange/fsm/internal/table"
)

// verdict describes what a reads for word: accepted or rejected for an
// acceptor, the emitted outputs for a transducer.
func verdict(a *fsm.Automaton, word string) string {
	symbols := strings.Split(word, "")
	if a.Kind() == fsm.Acceptor {
		ok, err := fsm.Accepts(a, symbols)
		switch {
		case err != nil:
			return promptui.Styler(promptui.FGYellow)(err.Error())
		case ok:
			return promptui.Styler(promptui.FGGreen)("accepted")
		default:
			return promptui.Styler(promptui.FGRed)("rejected")
		}
	}

	out, err := fsm.Translate(a, symbols)
	if err != nil {
		return promptui.Styler(promptui.FGYellow)(err.Error())
	}
	msg := strings.Join(out, " ")
	if len(out) < len(symbols) {
		return msg + promptui.Styler(promptui.FGRed)(fmt.Sprintf(" (stopped after %d of %d symbols)", len(out), len(symbols)))
	}
	return promptui.Styler(promptui.FGCyan)(msg)
}

// interactive shows the machine, then reads words until an empty line,
// "exit" or end of input.
func interactive(e *env, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	a, layout, err := e.read(args[1], kind)
	if err != nil {
		return err
	}
	if err := table.Render(e.stdout, a, layout); err != nil {
		return err
	}

	divider := promptui.Styler(promptui.FGMagenta)(strings.Repeat("-", 30))
	for {
		prompt := promptui.Prompt{
			Label: "Word (empty or 'exit' to quit)",
		}
		word, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if word == "" || word == "exit" {
			return nil
		}
		fmt.Fprintln(e.stdout, verdict(a, word))
		fmt.Fprintln(e.stdout, divider)
	}
}

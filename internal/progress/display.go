package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Display orchestrates the rendering of pipeline progress
type Display struct {
	capabilities TerminalCapabilities
	currentStage *StageInfo
	spinner      *spinner.Spinner
	symbols      Symbols
	enabled      bool
}

// NewDisplay creates a progress display with the given terminal capabilities.
// A disabled display still tracks stages but renders nothing, which keeps
// call sites free of conditionals.
func NewDisplay(caps TerminalCapabilities, enabled bool) *Display {
	return &Display{
		capabilities: caps,
		symbols:      selectSymbols(caps),
		enabled:      enabled,
	}
}

// selectSymbols picks the indicator set the terminal can render.
func selectSymbols(caps TerminalCapabilities) Symbols {
	if caps.SupportsUnicode {
		return Symbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // Unicode dots: ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}
	return Symbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // ASCII: | / - \
	}
}

// StartStage begins displaying progress for a stage
func (p *Display) StartStage(stage StageInfo) error {
	if err := stage.Validate(); err != nil {
		return err
	}
	p.currentStage = &stage
	if !p.enabled {
		return nil
	}

	msg := buildStageMessage(stage, "Running")

	if p.capabilities.IsTTY {
		p.spinner = spinner.New(
			spinner.CharSets[p.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		// Stderr keeps the spinner clear of prompts and generated output
		p.spinner.Writer = os.Stderr
		p.spinner.Suffix = " " + msg
		p.spinner.Start()
	} else {
		fmt.Println(msg)
	}
	return nil
}

// CompleteStage stops the spinner and displays completion status
func (p *Display) CompleteStage(stage StageInfo) error {
	p.StopSpinner()
	p.currentStage = nil
	if !p.enabled {
		return nil
	}

	mark := checkmark(p.symbols, p.capabilities.SupportsColor)
	counter := formatStageCounter(stage.Number, stage.TotalStages)
	fmt.Printf("%s %s %s\n", mark, counter, capitalize(stage.Name))
	return nil
}

// FailStage stops the spinner and displays failure status
func (p *Display) FailStage(stage StageInfo, err error) error {
	p.StopSpinner()
	p.currentStage = nil
	if !p.enabled {
		return nil
	}

	mark := failureMark(p.symbols, p.capabilities.SupportsColor)
	counter := formatStageCounter(stage.Number, stage.TotalStages)
	fmt.Printf("%s %s %s failed: %v\n", mark, counter, capitalize(stage.Name), err)
	return nil
}

// StopSpinner stops the spinner without showing completion/failure.
// Useful when pausing progress display for interactive prompts.
func (p *Display) StopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}

package collector

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"terragen/internal/schema"
)

// cancelToken cancels collection when entered at any prompt. EOF (Ctrl-D)
// cancels as well.
const cancelToken = "/cancel"

// ConsolePrompter reads answers from an interactive terminal.
type ConsolePrompter struct {
	in  *bufio.Scanner
	out io.Writer

	fieldColor *color.Color
	hintColor  *color.Color
}

// NewConsolePrompter creates a prompter reading from in and writing to out.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:         bufio.NewScanner(in),
		out:        out,
		fieldColor: color.New(color.FgCyan, color.Bold),
		hintColor:  color.New(color.Faint),
	}
}

// Ask prompts for one field, showing its hints, and returns the raw
// trimmed answer. Returns ErrCanceled on EOF or the cancel token.
func (p *ConsolePrompter) Ask(field schema.FieldSpec, required bool) (string, error) {
	label := "optional"
	if required {
		label = "required"
	}
	p.fieldColor.Fprintf(p.out, "%s", field.Name)
	fmt.Fprintf(p.out, " (%s) ", label)
	p.hintColor.Fprintf(p.out, "[%s]", field.Hint())
	fmt.Fprint(p.out, ": ")
	return p.readLine()
}

// Confirm asks a yes/no question; anything but y/yes counts as no.
func (p *ConsolePrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/N): ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Notify prints a hint line between prompts.
func (p *ConsolePrompter) Notify(msg string) {
	p.hintColor.Fprintf(p.out, "  %s\n", msg)
}

func (p *ConsolePrompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrCanceled
	}
	line := strings.TrimSpace(p.in.Text())
	if line == cancelToken {
		return "", ErrCanceled
	}
	return line, nil
}

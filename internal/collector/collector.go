// Package collector drives the interactive collection of field values
// against a resource schema. It is a small state machine: required fields
// are collected in schema order with per-field validation, then the user
// is offered the optional fields, then the session completes or is
// abandoned. Prompting goes through the Prompter capability interface so
// the machine is testable with scripted responses.
package collector

import (
	"errors"
	"fmt"

	"terragen/internal/schema"
)

// ErrAbandoned is returned when the user cancels at any prompt. Collected
// values up to that point are not exposed; the caller must not generate
// from a partial set.
var ErrAbandoned = errors.New("collector: collection abandoned")

// Stage is the collection session state.
type Stage int

const (
	StageCollectingRequired Stage = iota
	StagePromptingOptional
	StageCollectingOptional
	StageDone
	StageAbandoned
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageCollectingRequired:
		return "collecting_required"
	case StagePromptingOptional:
		return "prompting_optional"
	case StageCollectingOptional:
		return "collecting_optional"
	case StageDone:
		return "done"
	case StageAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Prompter is the human-interaction contract. Ask returns ErrCanceled to
// signal explicit cancellation.
type Prompter interface {
	// Ask solicits a value for field. required only affects the wording
	// of the prompt; validation policy stays with the collector.
	Ask(field schema.FieldSpec, required bool) (string, error)

	// Confirm asks a yes/no question, defaulting to no.
	Confirm(question string) (bool, error)

	// Notify shows a validation hint to the user between attempts.
	Notify(msg string)
}

// ErrCanceled is the cancellation signal a Prompter returns.
var ErrCanceled = errors.New("collector: canceled by user")

// Session is the mutable state of one collection run. It is owned by a
// single pipeline run and never shared.
type Session struct {
	Schema *schema.ResourceSchema

	stage     Stage
	collected *Values
}

// Stage returns the session's current state.
func (s *Session) Stage() Stage {
	return s.stage
}

// Values returns the collected mapping. It is only meaningful once the
// session reached StageDone.
func (s *Session) Values() *Values {
	return s.collected
}

// Collector runs collection sessions.
type Collector struct {
	Prompter Prompter

	// EmptyHintAfter is the number of consecutive empty inputs on a
	// required field before an extended hint is shown. Zero means the
	// default of 3.
	EmptyHintAfter int
}

// Run collects values for every required field of sch, offers the
// optional fields, and returns the completed session. On cancellation it
// returns ErrAbandoned and a session in StageAbandoned.
func (c *Collector) Run(sch *schema.ResourceSchema) (*Session, error) {
	sess := &Session{
		Schema:    sch,
		stage:     StageCollectingRequired,
		collected: NewValues(),
	}

	for _, field := range sch.Required {
		value, err := c.collectField(field, true)
		if err != nil {
			return c.abandon(sess, err)
		}
		sess.collected.Set(field.Name, value)
	}

	sess.stage = StagePromptingOptional
	if len(sch.Optional) > 0 {
		wantOptional, err := c.Prompter.Confirm("Do you want to fill optional fields?")
		if err != nil {
			return c.abandon(sess, err)
		}
		if wantOptional {
			sess.stage = StageCollectingOptional
			for _, field := range sch.Optional {
				value, err := c.collectField(field, false)
				if err != nil {
					return c.abandon(sess, err)
				}
				if value != "" {
					sess.collected.Set(field.Name, value)
				}
			}
		}
	}

	sess.stage = StageDone
	return sess, nil
}

// collectField prompts until a valid value is produced. For required
// fields an empty answer without a default re-prompts; for optional
// fields it skips (returns ""). A value outside the field's options
// re-prompts with the valid options listed.
func (c *Collector) collectField(field schema.FieldSpec, required bool) (string, error) {
	hintAfter := c.EmptyHintAfter
	if hintAfter <= 0 {
		hintAfter = 3
	}

	emptyAttempts := 0
	for {
		value, err := c.Prompter.Ask(field, required)
		if err != nil {
			return "", err
		}

		if value == "" {
			if field.HasDefault() {
				c.Prompter.Notify(fmt.Sprintf("using default %s", field.Default))
				return field.Default, nil
			}
			if !required {
				return "", nil
			}
			emptyAttempts++
			if emptyAttempts >= hintAfter {
				c.Prompter.Notify(fmt.Sprintf("'%s' is required (%s)", field.Name, field.Hint()))
			}
			continue
		}
		emptyAttempts = 0

		if !field.Allows(value) {
			c.Prompter.Notify(fmt.Sprintf("invalid value for '%s': must be one of %v", field.Name, field.Options))
			continue
		}
		return value, nil
	}
}

// abandon marks the session abandoned and maps prompter cancellation to
// ErrAbandoned. Other prompter failures propagate as-is.
func (c *Collector) abandon(sess *Session, err error) (*Session, error) {
	sess.stage = StageAbandoned
	sess.collected = NewValues()
	if errors.Is(err, ErrCanceled) {
		return sess, ErrAbandoned
	}
	return sess, err
}

// Package play replays a scripted scenario against a feed controller on real
// timers and reports every frame and sink event.
package play

import (
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

// Action names, as they appear in script files and step events.
const (
	ActionShow           = "show"
	ActionWait           = "wait"
	ActionRemove         = "remove"
	ActionRemoveMatching = "remove_matching"
	ActionClick          = "click"
	ActionReplace        = "replace"
	ActionClear          = "clear"
)

// Script is the decoded form of a scenario file.
type Script struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step holds exactly one action.
type Step struct {
	Show           []feed.Message `yaml:"show,omitempty" json:"show,omitempty"`
	Wait           time.Duration  `yaml:"wait,omitempty" json:"wait,omitempty"`
	Remove         []Target       `yaml:"remove,omitempty" json:"remove,omitempty"`
	RemoveMatching string         `yaml:"remove_matching,omitempty" json:"remove_matching,omitempty"`
	Click          *Target        `yaml:"click,omitempty" json:"click,omitempty"`
	Replace        []feed.Message `yaml:"replace,omitempty" json:"replace,omitempty"`
	Clear          bool           `yaml:"clear,omitempty" json:"clear,omitempty"`
}

// Target refers to a live entry by caller id or by sequence id.
type Target struct {
	ID  string `yaml:"id,omitempty" json:"id,omitempty"`
	Seq int64  `yaml:"seq,omitempty" json:"seq,omitempty"`
}

// Ref converts the target into a feed reference. A caller id wins over a
// sequence id.
func (t Target) Ref() feed.Ref {
	if t.ID != "" {
		return feed.ByID(t.ID)
	}
	return feed.BySeq(t.Seq)
}

// Actions returns the names of every action set on the step. A valid step
// has exactly one.
func (s Step) Actions() []string {
	var out []string
	if s.Show != nil {
		out = append(out, ActionShow)
	}
	if s.Wait != 0 {
		out = append(out, ActionWait)
	}
	if s.Remove != nil {
		out = append(out, ActionRemove)
	}
	if s.RemoveMatching != "" {
		out = append(out, ActionRemoveMatching)
	}
	if s.Click != nil {
		out = append(out, ActionClick)
	}
	if s.Replace != nil {
		out = append(out, ActionReplace)
	}
	if s.Clear {
		out = append(out, ActionClear)
	}
	return out
}

// Action returns the step's single action, or "" when the step is invalid.
func (s Step) Action() string {
	actions := s.Actions()
	if len(actions) != 1 {
		return ""
	}
	return actions[0]
}

// Validate checks every step and reports problems as criterio field errors
// keyed by step index.
func (s Script) Validate() error {
	if len(s.Steps) == 0 {
		return criterio.NewFieldErrors("steps", fmt.Errorf("script has no steps"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, step := range s.Steps {
		field := fmt.Sprintf("steps[%d]", i)

		actions := step.Actions()
		switch len(actions) {
		case 0:
			errs = errs.Append(field, fmt.Errorf("step has no action"))
			continue
		case 1:
		default:
			errs = errs.Append(field, fmt.Errorf("step has %d actions %v, expected one", len(actions), actions))
			continue
		}

		switch actions[0] {
		case ActionShow:
			errs = validateMessages(errs, field+".show", step.Show)
		case ActionReplace:
			errs = validateMessages(errs, field+".replace", step.Replace)
		case ActionWait:
			if step.Wait < 0 {
				errs = errs.Append(field+".wait", fmt.Errorf("must be positive, got %s", step.Wait))
			}
		case ActionRemove:
			if len(step.Remove) == 0 {
				errs = errs.Append(field+".remove", fmt.Errorf("no targets"))
			}
			for j, t := range step.Remove {
				errs = validateTarget(errs, fmt.Sprintf("%s.remove[%d]", field, j), t)
			}
		case ActionRemoveMatching:
			if !doublestar.ValidatePattern(step.RemoveMatching) {
				errs = errs.Append(field+".remove_matching", fmt.Errorf("invalid pattern %q", step.RemoveMatching))
			}
		case ActionClick:
			errs = validateTarget(errs, field+".click", *step.Click)
		}
	}

	return errs.ToError()
}

func validateMessages(errs criterio.FieldErrorsBuilder, field string, msgs []feed.Message) criterio.FieldErrorsBuilder {
	for j, m := range msgs {
		if !m.Severity.Valid() {
			errs = errs.Append(fmt.Sprintf("%s[%d].severity", field, j), fmt.Errorf("unknown severity %q", m.Severity))
		}
	}
	return errs
}

func validateTarget(errs criterio.FieldErrorsBuilder, field string, t Target) criterio.FieldErrorsBuilder {
	switch {
	case t.ID == "" && t.Seq == 0:
		return errs.Append(field, fmt.Errorf("target needs an id or a seq"))
	case t.Seq < 0:
		return errs.Append(field+".seq", fmt.Errorf("must be positive"))
	}
	return errs
}

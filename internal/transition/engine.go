// Package transition implements a generic status state machine: a registry of
// per-status rules and a pure engine that validates one requested action against
// the current status. Modules (vendor onboarding, payouts, products, orders)
// each supply their own registry; persistence is always the caller's job.
package transition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition means the requested action is not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrPermissionDenied means the caller lacks the capability the rule requires.
	ErrPermissionDenied = errors.New("permission denied")
)

// MissingFieldError means a field the rule requires was empty or blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Caller identifies the authenticated actor requesting a transition. Capabilities
// are explicit inputs; the engine never reads ambient session state.
type Caller struct {
	ID           uuid.UUID
	Capabilities []string
}

// Has reports whether the caller holds the named capability.
func (c Caller) Has(capability string) bool {
	for _, cap := range c.Capabilities {
		if cap == capability {
			return true
		}
	}
	return false
}

// Rule describes one action permitted from a status.
type Rule[S ~string] struct {
	Action        string
	Target        S
	Capability    string // required caller capability, empty means unrestricted
	RequiredField string // request field that must be non-blank, empty means none
}

// Registry maps each status to the rules that may be applied from it.
type Registry[S ~string] map[S][]Rule[S]

// AllowedActions returns the action names available from the current status.
// An unknown status yields an empty slice.
func (reg Registry[S]) AllowedActions(current S) []string {
	rules := reg[current]
	actions := make([]string, 0, len(rules))
	for _, r := range rules {
		actions = append(actions, r.Action)
	}
	return actions
}

// Apply validates the requested action against the current status and returns the
// matched rule. Checks run in order (allowed transition, then capability, then
// required field) and the first failure wins. Apply is pure; it never mutates anything.
func (reg Registry[S]) Apply(current S, caller Caller, action string, fields map[string]string) (Rule[S], error) {
	var rule Rule[S]
	found := false
	for _, r := range reg[current] {
		if r.Action == action {
			rule = r
			found = true
			break
		}
	}
	if !found {
		return Rule[S]{}, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, current)
	}

	if rule.Capability != "" && !caller.Has(rule.Capability) {
		return Rule[S]{}, fmt.Errorf("%w: %s requires capability %s", ErrPermissionDenied, action, rule.Capability)
	}

	if rule.RequiredField != "" && strings.TrimSpace(fields[rule.RequiredField]) == "" {
		return Rule[S]{}, &MissingFieldError{Field: rule.RequiredField}
	}

	return rule, nil
}

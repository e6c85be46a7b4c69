package model

import "strings"

// Action names a browser operation a Step performs.
type Action string

// Actions understood by the execution engine.
const (
	ActionOpenURL Action = "open_url"
	ActionClick   Action = "click"
	ActionInput   Action = "input"
	ActionWait    Action = "wait"
	ActionScroll  Action = "scroll"
	ActionExtract Action = "extract"
	ActionSubmit  Action = "submit"
)

// Actions lists every known action in display order.
func Actions() []Action {
	return []Action{ActionOpenURL, ActionClick, ActionInput, ActionWait, ActionScroll, ActionExtract, ActionSubmit}
}

// ParseAction matches s case-insensitively against the known actions.
func ParseAction(s string) (Action, bool) {
	want := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range Actions() {
		if a == want {
			return a, true
		}
	}
	return "", false
}

// Known reports whether a is one of Actions.
func (a Action) Known() bool {
	for _, k := range Actions() {
		if a == k {
			return true
		}
	}
	return false
}

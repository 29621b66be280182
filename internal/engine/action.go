package engine

import "github.com/xtendafinance/loanbot/internal/catalog"

// Channel structural limits, enforced by dispatchers at the boundary.
const (
	MaxButtons  = 3
	MaxListRows = 10
)

// Action is one outbound message the conversation engine wants delivered.
// The engine only decides; a dispatcher translates actions into gateway
// calls, so the transition logic stays testable without network access.
type Action interface {
	isAction()
}

// TextAction is a plain text message.
type TextAction struct {
	Body string
}

// ButtonsAction is a message with up to MaxButtons reply buttons.
type ButtonsAction struct {
	Body    string
	Buttons []catalog.Button
}

// ListAction is an interactive list with up to MaxListRows rows.
type ListAction struct {
	Body        string
	ButtonLabel string
	Sections    []catalog.Section
}

func (TextAction) isAction()    {}
func (ButtonsAction) isAction() {}
func (ListAction) isAction()    {}

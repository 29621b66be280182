package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/xtendafinance/loanbot/internal/catalog"
	"github.com/xtendafinance/loanbot/internal/engine"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

type gatewayCall struct {
	kind     string
	to       string
	body     string
	buttons  []catalog.Button
	sections []catalog.Section
}

type fakeGateway struct {
	calls   []gatewayCall
	textErr error
}

func (g *fakeGateway) SendText(_ context.Context, to, body string) error {
	g.calls = append(g.calls, gatewayCall{kind: "text", to: to, body: body})
	return g.textErr
}

func (g *fakeGateway) SendButtons(_ context.Context, to, body string, buttons []catalog.Button) error {
	g.calls = append(g.calls, gatewayCall{kind: "buttons", to: to, body: body, buttons: buttons})
	return nil
}

func (g *fakeGateway) SendList(_ context.Context, to, body, _ string, sections []catalog.Section) error {
	g.calls = append(g.calls, gatewayCall{kind: "list", to: to, body: body, sections: sections})
	return nil
}

func TestDispatchDeliversInOrder(t *testing.T) {
	gw := &fakeGateway{}
	d := NewDispatcher(gw, nil, logging.Default())

	d.Dispatch(context.Background(), "260971234567", []engine.Action{
		engine.TextAction{Body: "first"},
		engine.ButtonsAction{Body: "second", Buttons: catalog.EmploymentButtons()},
	})

	if len(gw.calls) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(gw.calls))
	}
	if gw.calls[0].kind != "text" || gw.calls[0].body != "first" {
		t.Errorf("first call = %+v", gw.calls[0])
	}
	if gw.calls[1].kind != "buttons" || gw.calls[1].to != "260971234567" {
		t.Errorf("second call = %+v", gw.calls[1])
	}
}

func TestDispatchTruncatesButtons(t *testing.T) {
	gw := &fakeGateway{}
	d := NewDispatcher(gw, nil, logging.Default())

	buttons := []catalog.Button{
		{ID: "a", Title: "A"}, {ID: "b", Title: "B"},
		{ID: "c", Title: "C"}, {ID: "d", Title: "D"},
	}
	d.Dispatch(context.Background(), "u1", []engine.Action{
		engine.ButtonsAction{Body: "pick", Buttons: buttons},
	})

	if len(gw.calls) != 1 {
		t.Fatalf("expected 1 send, got %d", len(gw.calls))
	}
	got := gw.calls[0].buttons
	if len(got) != engine.MaxButtons {
		t.Fatalf("expected %d buttons after truncation, got %d", engine.MaxButtons, len(got))
	}
	if got[2].ID != "c" {
		t.Errorf("expected first buttons kept, got %+v", got)
	}
}

func TestDispatchTruncatesListRows(t *testing.T) {
	rows := make([]catalog.Row, 8)
	for i := range rows {
		rows[i] = catalog.Row{ID: "r", Title: "Row"}
	}
	sections := []catalog.Section{
		{Title: "First", Rows: rows},
		{Title: "Second", Rows: rows},
	}

	gw := &fakeGateway{}
	d := NewDispatcher(gw, nil, logging.Default())
	d.Dispatch(context.Background(), "u1", []engine.Action{
		engine.ListAction{Body: "pick", ButtonLabel: "Open", Sections: sections},
	})

	if len(gw.calls) != 1 {
		t.Fatalf("expected 1 send, got %d", len(gw.calls))
	}
	total := 0
	for _, s := range gw.calls[0].sections {
		total += len(s.Rows)
	}
	if total != engine.MaxListRows {
		t.Fatalf("expected %d rows after truncation, got %d", engine.MaxListRows, total)
	}
}

func TestDispatchContinuesAfterFailure(t *testing.T) {
	gw := &fakeGateway{textErr: errors.New("boom")}
	d := NewDispatcher(gw, nil, logging.Default())

	d.Dispatch(context.Background(), "u1", []engine.Action{
		engine.TextAction{Body: "first"},
		engine.ButtonsAction{Body: "second", Buttons: catalog.EmploymentButtons()},
	})

	if len(gw.calls) != 2 {
		t.Fatalf("a failed send must not stop later actions, got %d calls", len(gw.calls))
	}
}

func TestTruncateRowsKeepsWholeBudget(t *testing.T) {
	sections := []catalog.Section{
		{Title: "A", Rows: make([]catalog.Row, 4)},
		{Title: "B", Rows: make([]catalog.Row, 4)},
	}
	out := truncateRows(sections, 10)
	if len(out) != 2 || len(out[0].Rows) != 4 || len(out[1].Rows) != 4 {
		t.Fatalf("sections within budget must pass through untouched: %+v", out)
	}
}

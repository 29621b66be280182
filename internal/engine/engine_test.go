package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/xtendafinance/loanbot/internal/catalog"
	"github.com/xtendafinance/loanbot/internal/leads"
	"github.com/xtendafinance/loanbot/internal/session"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

type fakeSaver struct {
	mu   sync.Mutex
	reqs []*leads.CreateLeadRequest
	err  error
}

func (f *fakeSaver) Create(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.reqs = append(f.reqs, req)
	return &leads.Lead{ID: uuid.NewString(), Name: req.Name}, nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type fakeAnswerer struct {
	reply     string
	err       error
	questions []string
}

func (f *fakeAnswerer) Answer(ctx context.Context, userID, question string) (string, error) {
	f.questions = append(f.questions, question)
	return f.reply, f.err
}

func newTestEngine(t *testing.T) (*Engine, *session.Store, *fakeSaver, *fakeAnswerer) {
	t.Helper()
	sessions := session.NewStore()
	saver := &fakeSaver{}
	answerer := &fakeAnswerer{reply: "We offer loans from ZMW 1,000."}
	eng := New(Config{
		Sessions: sessions,
		Saver:    saver,
		Answerer: answerer,
		Logger:   logging.Default(),
	})
	return eng, sessions, saver, answerer
}

const (
	testUser = "260971234567"
	testName = "Jane"
)

func process(eng *Engine, input string) []Action {
	return eng.Process(context.Background(), testUser, testName, input)
}

func wantSingleList(t *testing.T, actions []Action) ListAction {
	t.Helper()
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	list, ok := actions[0].(ListAction)
	if !ok {
		t.Fatalf("expected ListAction, got %T", actions[0])
	}
	return list
}

func TestFirstContactShowsMainMenu(t *testing.T) {
	eng, sessions, _, _ := newTestEngine(t)

	list := wantSingleList(t, process(eng, ""))
	if list.Sections[0].Rows[0].ID != catalog.MenuProducts {
		t.Fatalf("expected main menu, got %+v", list.Sections)
	}
	if sessions.GetOrCreate(testUser, testName).State != session.StateIdle {
		t.Fatal("first contact should leave the session idle")
	}
}

func TestMenuKeywordResetsFromAnyState(t *testing.T) {
	states := []session.State{
		session.StateIdle, session.StateAwaitingLoanType, session.StateAwaitingAmount,
		session.StateAwaitingEmployment, session.StateAwaitingName,
		session.StateAwaitingCallbackTime, session.StateAwaitingCallbackName,
		session.StateAwaitingCallbackTimeOnly, session.StateAIMode,
	}
	for _, state := range states {
		for _, keyword := range []string{"menu", "Hello", "  HI  ", "muli bwanji", catalog.MenuMain} {
			t.Run(string(state)+"/"+keyword, func(t *testing.T) {
				eng, sessions, saver, _ := newTestEngine(t)
				sess := sessions.GetOrCreate(testUser, testName)
				sess.State = state
				sess.Lead = session.Lead{Name: "Partial", LoanType: "Business Loan"}

				wantSingleList(t, process(eng, keyword))

				sess = sessions.GetOrCreate(testUser, testName)
				if sess.State != session.StateIdle {
					t.Fatalf("expected idle after reset, got %s", sess.State)
				}
				if sess.Lead != (session.Lead{}) {
					t.Fatalf("expected empty lead after reset, got %+v", sess.Lead)
				}
				if saver.count() != 0 {
					t.Fatal("reset must not persist a lead")
				}
			})
		}
	}
}

func TestApplyFlowRoundTrip(t *testing.T) {
	eng, sessions, saver, _ := newTestEngine(t)

	process(eng, "hi")
	process(eng, catalog.MenuApply)
	process(eng, "apply_personal")
	process(eng, "20000")
	process(eng, "emp_employed")
	process(eng, "Jane Doe")
	actions := process(eng, "time_morning")

	if saver.count() != 1 {
		t.Fatalf("expected exactly one saved lead, got %d", saver.count())
	}
	lead := saver.reqs[0]
	if lead.Name != "Jane Doe" {
		t.Errorf("name = %q", lead.Name)
	}
	if lead.Phone != testUser {
		t.Errorf("phone = %q", lead.Phone)
	}
	if lead.LoanType != "Personal Loan" {
		t.Errorf("loan type = %q", lead.LoanType)
	}
	if lead.LoanAmount != "ZMW 20,000" {
		t.Errorf("loan amount = %q", lead.LoanAmount)
	}
	if lead.Employment != "Employed" {
		t.Errorf("employment = %q", lead.Employment)
	}
	if lead.CallbackTime != "Morning (8am–12pm)" {
		t.Errorf("callback time = %q", lead.CallbackTime)
	}
	if lead.Reference != "#XF4567" {
		t.Errorf("reference = %q", lead.Reference)
	}

	if len(actions) != 1 {
		t.Fatalf("expected confirmation only, got %d actions", len(actions))
	}

	sess := sessions.GetOrCreate(testUser, testName)
	if sess.State != session.StateIdle || sess.Lead != (session.Lead{}) {
		t.Fatalf("session should be reset after completion: %+v", sess)
	}
}

func TestCallbackOnlyFlowDefaults(t *testing.T) {
	eng, _, saver, _ := newTestEngine(t)

	process(eng, catalog.MenuCallback)
	process(eng, "John Banda")
	process(eng, "time_evening")

	if saver.count() != 1 {
		t.Fatalf("expected one saved lead, got %d", saver.count())
	}
	lead := saver.reqs[0]
	if lead.LoanType != "General Inquiry" {
		t.Errorf("expected defaulted loan type, got %q", lead.LoanType)
	}
	if lead.LoanAmount != "TBD" || lead.Employment != "TBD" {
		t.Errorf("expected TBD placeholders, got amount=%q employment=%q", lead.LoanAmount, lead.Employment)
	}
	if lead.CallbackTime != "Evening (5pm–7pm)" {
		t.Errorf("callback time = %q", lead.CallbackTime)
	}
}

func TestConstrainedStateReprompting(t *testing.T) {
	eng, sessions, saver, _ := newTestEngine(t)

	process(eng, catalog.MenuApply)
	process(eng, "apply_business")
	process(eng, "50000")

	// Re-sending garbage in a constrained state re-prompts and never
	// advances or mutates the lead.
	before := sessions.GetOrCreate(testUser, testName).Lead
	for i := 0; i < 3; i++ {
		actions := process(eng, "banana")
		if len(actions) != 1 {
			t.Fatalf("expected a single re-prompt, got %d actions", len(actions))
		}
		if _, ok := actions[0].(ButtonsAction); !ok {
			t.Fatalf("expected employment buttons re-prompt, got %T", actions[0])
		}
		sess := sessions.GetOrCreate(testUser, testName)
		if sess.State != session.StateAwaitingEmployment {
			t.Fatalf("state advanced to %s on invalid input", sess.State)
		}
		if sess.Lead != before {
			t.Fatalf("lead mutated on invalid input: %+v", sess.Lead)
		}
	}
	if saver.count() != 0 {
		t.Fatal("nothing should be persisted by re-prompts")
	}
}

func TestInvalidAmountReprompts(t *testing.T) {
	eng, sessions, _, _ := newTestEngine(t)

	process(eng, catalog.MenuApply)
	process(eng, "apply_personal")

	for _, bad := range []string{"15 thousand", "abc"} {
		actions := process(eng, bad)
		if len(actions) != 1 {
			t.Fatalf("expected one corrective prompt, got %d", len(actions))
		}
		text, ok := actions[0].(TextAction)
		if !ok {
			t.Fatalf("expected TextAction, got %T", actions[0])
		}
		if text.Body != invalidAmountPrompt {
			t.Fatalf("unexpected prompt: %q", text.Body)
		}
		if sessions.GetOrCreate(testUser, testName).State != session.StateAwaitingAmount {
			t.Fatal("state should not change on invalid amount")
		}
	}
}

func TestIdleLongInputRoutesToAnswerer(t *testing.T) {
	eng, sessions, _, answerer := newTestEngine(t)

	actions := process(eng, "what are your interest rates?")
	if len(answerer.questions) != 1 {
		t.Fatalf("expected one answering call, got %d", len(answerer.questions))
	}
	if len(actions) != 2 {
		t.Fatalf("expected reply plus menu hint, got %d actions", len(actions))
	}
	if actions[0].(TextAction).Body != "We offer loans from ZMW 1,000." {
		t.Fatalf("unexpected reply: %+v", actions[0])
	}
	if sessions.GetOrCreate(testUser, testName).State != session.StateAIMode {
		t.Fatal("long idle input should enter ai mode")
	}

	// Follow-up questions stay in ai mode.
	process(eng, "and the repayment terms?")
	if len(answerer.questions) != 2 {
		t.Fatalf("expected follow-up answering call, got %d", len(answerer.questions))
	}
}

func TestIdleShortInputShowsMenu(t *testing.T) {
	eng, sessions, _, answerer := newTestEngine(t)

	wantSingleList(t, process(eng, "loan?"))
	if len(answerer.questions) != 0 {
		t.Fatal("short input must not reach the answering service")
	}
	if sessions.GetOrCreate(testUser, testName).State != session.StateIdle {
		t.Fatal("short input should stay idle")
	}
}

func TestAnswererFailureFallsBack(t *testing.T) {
	eng, _, _, answerer := newTestEngine(t)
	answerer.err = errors.New("upstream timeout")

	actions := process(eng, "tell me about asset finance")
	if len(actions) != 2 {
		t.Fatalf("expected fallback reply plus hint, got %d actions", len(actions))
	}
	if actions[0].(TextAction).Body != answerFallback {
		t.Fatalf("expected fallback copy, got %q", actions[0].(TextAction).Body)
	}
}

func TestProductDetailThenBackPrompt(t *testing.T) {
	eng, _, _, _ := newTestEngine(t)

	actions := process(eng, "prod_salary")
	if len(actions) != 2 {
		t.Fatalf("expected detail plus next-step prompt, got %d", len(actions))
	}
	if actions[0].(TextAction).Body != catalog.ProductInfo["prod_salary"] {
		t.Fatal("expected salary loan detail text")
	}
	if _, ok := actions[1].(ButtonsAction); !ok {
		t.Fatalf("expected back prompt buttons, got %T", actions[1])
	}
}

func TestEligibility(t *testing.T) {
	eng, _, _, _ := newTestEngine(t)

	actions := process(eng, catalog.MenuEligibility)
	if len(actions) != 2 {
		t.Fatalf("expected eligibility text plus prompt, got %d", len(actions))
	}
	if actions[0].(TextAction).Body != catalog.EligibilityText {
		t.Fatal("expected eligibility text")
	}
}

func TestSaveFailureDegradedNotice(t *testing.T) {
	eng, sessions, saver, _ := newTestEngine(t)
	saver.err = errors.New("database unavailable")

	process(eng, catalog.MenuCallback)
	process(eng, "John Banda")
	actions := process(eng, "time_morning")

	if len(actions) != 2 {
		t.Fatalf("expected confirmation plus degraded notice, got %d actions", len(actions))
	}
	if actions[1].(TextAction).Body != degradedNotice {
		t.Fatal("expected degraded-service notice")
	}
	// Flow still terminates cleanly.
	sess := sessions.GetOrCreate(testUser, testName)
	if sess.State != session.StateIdle || sess.Lead != (session.Lead{}) {
		t.Fatalf("session should reset even when persistence fails: %+v", sess)
	}
}

func TestUnknownStateResets(t *testing.T) {
	eng, sessions, _, _ := newTestEngine(t)

	sess := sessions.GetOrCreate(testUser, testName)
	sess.State = session.State("corrupted")

	wantSingleList(t, process(eng, "anything"))
	if sessions.GetOrCreate(testUser, testName).State != session.StateIdle {
		t.Fatal("unknown state should reset to idle")
	}
}

func TestLoanTypeSelectorFromIdle(t *testing.T) {
	eng, sessions, _, _ := newTestEngine(t)

	wantSingleList(t, process(eng, "apply_asset"))
	if sessions.GetOrCreate(testUser, testName).State != session.StateAwaitingLoanType {
		t.Fatal("apply selector in idle should start the apply flow")
	}
}

func TestConsultantAssignment(t *testing.T) {
	sessions := session.NewStore()
	saver := &fakeSaver{}
	eng := New(Config{
		Sessions:  sessions,
		Saver:     saver,
		Directory: catalog.StaticDirectory{},
		Logger:    logging.Default(),
	})

	eng.Process(context.Background(), testUser, testName, catalog.MenuCallback)
	eng.Process(context.Background(), testUser, testName, "John Banda")
	eng.Process(context.Background(), testUser, testName, "time_afternoon")

	if saver.count() != 1 {
		t.Fatalf("expected one lead, got %d", saver.count())
	}
	if saver.reqs[0].Consultant == "" {
		t.Fatal("expected a consultant assigned to the lead")
	}
}

func TestDistinctUsersDoNotShareState(t *testing.T) {
	eng, sessions, _, _ := newTestEngine(t)

	var wg sync.WaitGroup
	users := []string{"260971000001", "260971000002"}
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			eng.Process(context.Background(), userID, "User", catalog.MenuApply)
			eng.Process(context.Background(), userID, "User", "apply_personal")
		}(u)
	}
	wg.Wait()

	for _, u := range users {
		sess := sessions.GetOrCreate(u, "User")
		if sess.State != session.StateAwaitingAmount {
			t.Errorf("user %s in state %s", u, sess.State)
		}
		if sess.Lead.LoanType != "Personal Loan" {
			t.Errorf("user %s lead %+v", u, sess.Lead)
		}
	}
}

func TestEmptyNameInputReprompts(t *testing.T) {
	eng, sessions, saver, _ := newTestEngine(t)

	process(eng, catalog.MenuApply)
	process(eng, "apply_personal")
	process(eng, "15000")
	process(eng, "emp_employed")

	// A forwarded image or sticker arrives as empty input. The name must
	// not be consumed and the flow must hold its position.
	for _, input := range []string{"", "   "} {
		actions := process(eng, input)
		if len(actions) != 1 {
			t.Fatalf("expected 1 action, got %d", len(actions))
		}
		text, ok := actions[0].(TextAction)
		if !ok || text.Body != askNamePrompt {
			t.Fatalf("expected name re-prompt, got %+v", actions[0])
		}
	}
	if sess := sessions.GetOrCreate(testUser, testName); sess.State != session.StateAwaitingName {
		t.Fatalf("state = %s", sess.State)
	}

	process(eng, "Jane Phiri")
	process(eng, "time_morning")
	if saver.count() != 1 {
		t.Fatalf("expected 1 saved lead, got %d", saver.count())
	}
	if saver.reqs[0].Name != "Jane Phiri" {
		t.Fatalf("lead name = %q", saver.reqs[0].Name)
	}
}

func TestEmptyCallbackNameInputReprompts(t *testing.T) {
	eng, sessions, _, _ := newTestEngine(t)

	process(eng, catalog.MenuCallback)
	actions := process(eng, "")
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	text, ok := actions[0].(TextAction)
	if !ok || text.Body != callbackIntroPrompt {
		t.Fatalf("expected callback name re-prompt, got %+v", actions[0])
	}
	if sess := sessions.GetOrCreate(testUser, testName); sess.State != session.StateAwaitingCallbackName {
		t.Fatalf("state = %s", sess.State)
	}
}

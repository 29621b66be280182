package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/xtendafinance/loanbot/internal/leads"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

// NotifyingSaver decorates a lead repository with a sales-inbox email for
// every captured lead. Persistence is the source of truth: notification
// failures are logged and swallowed so a mail outage never loses a lead.
type NotifyingSaver struct {
	repo   leads.Repository
	email  EmailSender
	inbox  string
	logger *logging.Logger
}

// NewNotifyingSaver wraps repo. A nil email sender or empty inbox address
// disables notifications and passes writes straight through.
func NewNotifyingSaver(repo leads.Repository, email EmailSender, inbox string, logger *logging.Logger) *NotifyingSaver {
	if repo == nil {
		panic("notify: lead repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NotifyingSaver{
		repo:   repo,
		email:  email,
		inbox:  inbox,
		logger: logger,
	}
}

// Create persists the lead, then emails the sales inbox.
func (s *NotifyingSaver) Create(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	lead, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.email == nil || s.inbox == "" {
		return lead, nil
	}
	msg := EmailMessage{
		To:      s.inbox,
		ToName:  "Sales Team",
		Subject: fmt.Sprintf("New loan lead %s - %s", lead.Reference, lead.LoanType),
		Body:    leadSummary(lead),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("failed to notify sales inbox", "error", err, "reference", lead.Reference)
	}
	return lead, nil
}

func leadSummary(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	fmt.Fprintf(&b, "Loan type: %s\n", lead.LoanType)
	fmt.Fprintf(&b, "Amount: %s\n", lead.LoanAmount)
	fmt.Fprintf(&b, "Employment: %s\n", lead.Employment)
	fmt.Fprintf(&b, "Callback: %s\n", lead.CallbackTime)
	if lead.Consultant != "" {
		fmt.Fprintf(&b, "Consultant: %s\n", lead.Consultant)
	}
	fmt.Fprintf(&b, "Reference: %s\n", lead.Reference)
	fmt.Fprintf(&b, "Source: %s\n", lead.Source)
	return b.String()
}

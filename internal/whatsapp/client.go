// Package whatsapp implements the Meta Cloud API gateway: the outbound
// message senders, the action dispatcher and the inbound webhook handler.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xtendafinance/loanbot/internal/catalog"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

var sendTracer = otel.Tracer("loanbot.internal.whatsapp.send")

// Gateway sends messages to an end user over the messaging channel.
type Gateway interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []catalog.Button) error
	SendList(ctx context.Context, to, body, buttonLabel string, sections []catalog.Section) error
}

// Client posts messages using the WhatsApp Cloud API.
type Client struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	httpClient    *http.Client
	logger        *logging.Logger
}

// NewClient builds a sender for the Cloud API /messages endpoint.
func NewClient(baseURL, phoneNumberID, accessToken string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       baseURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

var _ Gateway = (*Client)(nil)

type textPayload struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type interactivePayload struct {
	Type   string             `json:"type"`
	Body   *interactiveBody   `json:"body,omitempty"`
	Action *interactiveAction `json:"action"`
}

type interactiveBody struct {
	Text string `json:"text"`
}

type interactiveAction struct {
	Buttons  []replyButton `json:"buttons,omitempty"`
	Button   string        `json:"button,omitempty"`
	Sections []listSection `json:"sections,omitempty"`
}

type replyButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type listSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []listRow `json:"rows"`
}

type listRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type messagePayload struct {
	MessagingProduct string              `json:"messaging_product"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Text             *textPayload        `json:"text,omitempty"`
	Interactive      *interactivePayload `json:"interactive,omitempty"`
}

// SendText delivers a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.post(ctx, "text", messagePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textPayload{Body: body},
	})
}

// SendButtons delivers a reply-button message. Callers must respect the
// 3-button channel limit; the dispatcher truncates before calling here.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []catalog.Button) error {
	replies := make([]replyButton, 0, len(buttons))
	for _, b := range buttons {
		replies = append(replies, replyButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: b.Title},
		})
	}
	return c.post(ctx, "buttons", messagePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactivePayload{
			Type:   "button",
			Body:   &interactiveBody{Text: body},
			Action: &interactiveAction{Buttons: replies},
		},
	})
}

// SendList delivers an interactive list message.
func (c *Client) SendList(ctx context.Context, to, body, buttonLabel string, sections []catalog.Section) error {
	out := make([]listSection, 0, len(sections))
	for _, s := range sections {
		rows := make([]listRow, 0, len(s.Rows))
		for _, r := range s.Rows {
			rows = append(rows, listRow{ID: r.ID, Title: r.Title, Description: r.Description})
		}
		out = append(out, listSection{Title: s.Title, Rows: rows})
	}
	return c.post(ctx, "list", messagePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactivePayload{
			Type:   "list",
			Body:   &interactiveBody{Text: body},
			Action: &interactiveAction{Button: buttonLabel, Sections: out},
		},
	})
}

// post sends one payload, retrying transient failures.
func (c *Client) post(ctx context.Context, kind string, payload messagePayload) error {
	if c.accessToken == "" {
		return errors.New("whatsapp: access token missing")
	}
	if payload.To == "" {
		return errors.New("whatsapp: to required")
	}

	ctx, span := sendTracer.Start(ctx, "whatsapp.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("loanbot.to", payload.To),
		attribute.String("loanbot.kind", kind),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: failed to marshal payload: %w", err)
	}
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("whatsapp: failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				c.logger.Info("whatsapp message sent", "to", payload.To, "kind", kind)
				return nil
			}
			lastErr = fmt.Errorf("whatsapp: send failed: status %d, body: %s", resp.StatusCode, string(respBody))
			// Client errors will not succeed on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break
			}
		}

		if attempt < 3 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
	}
	span.RecordError(lastErr)
	return lastErr
}

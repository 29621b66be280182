package whatsapp

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// InboundMessage is the normalized form of one user message: the triple the
// conversation engine consumes.
type InboundMessage struct {
	UserID      string
	DisplayName string
	Input       string
	Kind        string // "text", "button", "list"
}

// ErrNoMessage marks webhook deliveries that carry no user message, such as
// delivery and read status updates. These are acknowledged and dropped.
var ErrNoMessage = errors.New("whatsapp: webhook contains no user message")

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []webhookMessage `json:"messages"`
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID string `json:"id"`
		} `json:"button_reply"`
		ListReply *struct {
			ID string `json:"id"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

// ParseWebhook extracts the first user message from a Cloud API webhook
// body. Interactive replies normalize to their selector ID; unsupported
// message types normalize to empty input, which shows the main menu.
func ParseWebhook(body io.Reader) (InboundMessage, error) {
	var payload webhookPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return InboundMessage{}, errors.New("whatsapp: malformed webhook payload")
	}

	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return InboundMessage{}, ErrNoMessage
	}
	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return InboundMessage{}, ErrNoMessage
	}

	msg := value.Messages[0]
	inbound := InboundMessage{UserID: msg.From}
	if len(value.Contacts) > 0 {
		inbound.DisplayName = value.Contacts[0].Profile.Name
	}
	if inbound.DisplayName == "" {
		inbound.DisplayName = "there"
	}

	switch msg.Type {
	case "text":
		inbound.Kind = "text"
		if msg.Text != nil {
			inbound.Input = strings.TrimSpace(msg.Text.Body)
		}
	case "interactive":
		if msg.Interactive == nil {
			break
		}
		switch msg.Interactive.Type {
		case "button_reply":
			inbound.Kind = "button"
			if msg.Interactive.ButtonReply != nil {
				inbound.Input = msg.Interactive.ButtonReply.ID
			}
		case "list_reply":
			inbound.Kind = "list"
			if msg.Interactive.ListReply != nil {
				inbound.Input = msg.Interactive.ListReply.ID
			}
		}
	default:
		// Media and other unsupported types fall through with empty input.
		inbound.Kind = msg.Type
	}

	if inbound.UserID == "" {
		return InboundMessage{}, ErrNoMessage
	}
	return inbound, nil
}

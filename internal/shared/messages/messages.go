// Package messages holds user-facing notification texts.
package messages

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type MessageText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Render replaces {key} placeholders in the title and body.
func (m MessageText) Render(vars map[string]string) MessageText {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)
	return MessageText{Title: r.Replace(m.Title), Body: r.Replace(m.Body)}
}

type Messages struct {
	BankLinked       MessageText `json:"bank_linked"`
	TransferSent     MessageText `json:"transfer_sent"`
	TransferReceived MessageText `json:"transfer_received"`
}

// Default returns the built-in English texts.
func Default() *Messages {
	return &Messages{
		BankLinked: MessageText{
			Title: "Bank account linked",
			Body:  "{bank} is now connected to your dashboard.",
		},
		TransferSent: MessageText{
			Title: "Transfer sent",
			Body:  "Your transfer of ${amount} is on its way.",
		},
		TransferReceived: MessageText{
			Title: "Transfer incoming",
			Body:  "{sender} sent you ${amount}.",
		},
	}
}

// Load reads texts from a JSON file. Keys missing from the file keep their
// defaults; an empty path returns the defaults.
func Load(path string) (*Messages, error) {
	msgs := Default()
	if path == "" {
		return msgs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}
	if err := json.Unmarshal(data, msgs); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	return msgs, nil
}

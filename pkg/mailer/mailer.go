// Package mailer delivers plain-text email.
package mailer

import (
	"context"
	"fmt"
	"strings"
)

type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Sender delivers a message. Delivery failures are returned to the caller.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func (m Message) validate() error {
	if m.From == "" {
		return fmt.Errorf("message has no sender")
	}
	if len(m.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}
	return nil
}

// bytes renders the message in RFC 5322 form.
func (m Message) bytes() []byte {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(m.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", m.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(m.Body)

	return []byte(msg.String())
}

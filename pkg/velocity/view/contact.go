package view

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/mail"
)

// SendResult is the outcome of a contact form submission, reported on both paths.
type SendResult struct {
	Sent bool
	Err  error
}

// ContactForm collects a contact message and forwards it to the email provider.
type ContactForm struct {
	sender mail.Sender

	mu         sync.Mutex
	msg        mail.Message
	submitting bool
}

func NewContactForm(sender mail.Sender) *ContactForm {
	return &ContactForm{sender: sender}
}

// SetField sets a form field by its input name.
func (c *ContactForm) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "from_name", "name":
		c.msg.Name = value
	case "from_email", "email":
		c.msg.Email = value
	case "from_phone", "user_phone", "phone":
		c.msg.Phone = value
	case "message":
		c.msg.Message = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// SetMessage replaces every field at once.
func (c *ContactForm) SetMessage(msg mail.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msg = msg
}

func (c *ContactForm) Message() mail.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msg
}

// Submit sends the message. The form is cleared only when the provider accepts it.
func (c *ContactForm) Submit(ctx context.Context) SendResult {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return SendResult{Err: ErrBusy}
	}
	msg := c.msg
	if err := validateStruct(msg); err != nil {
		c.mu.Unlock()
		return SendResult{Err: err}
	}
	c.submitting = true
	c.mu.Unlock()

	err := c.sender.Send(ctx, msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		log.WithError(err).Warn("Failed to send email")
		return SendResult{Err: err}
	}
	c.msg = mail.Message{}
	return SendResult{Sent: true}
}

// Package mail forwards contact form messages through the EmailJS REST API.
package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

const (
	DefaultBaseURL    = "https://api.emailjs.com"
	DefaultPhoneField = "user_phone"
	sendPath          = "/api/v1.0/email/send"
)

var ErrNotConfigured = errors.New("email service is not configured")

// Message is a contact form submission
type Message struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

// Config identifies the hosted email template
type Config struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PhoneField is the template parameter carrying the phone number.
	PhoneField string
	Timeout    time.Duration
}

// SendError is a message the provider did not accept.
type SendError struct {
	Status int
	Err    error
}

func (e *SendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("send email: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("send email: %v", e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Sender delivers contact messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client implements Sender against EmailJS
type Client struct {
	cfg        Config
	httpClient *resty.Client
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewClient returns an EmailJS client. Zero fields of cfg fall back to defaults.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PhoneField == "" {
		cfg.PhoneField = DefaultPhoneField
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		cfg: cfg,
		httpClient: resty.New().
			SetTimeout(cfg.Timeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json"),
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// TemplateParams maps a message onto the template's field names.
func (c *Client) TemplateParams(msg Message) map[string]string {
	return map[string]string{
		"from_name":      msg.Name,
		"from_email":     msg.Email,
		c.cfg.PhoneField: msg.Phone,
		"message":        msg.Message,
	}
}

// Send submits msg to the provider. No retries are attempted.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.cfg.ServiceID == "" || c.cfg.TemplateID == "" || c.cfg.PublicKey == "" {
		return &SendError{Err: ErrNotConfigured}
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     c.cfg.TemplateID,
		UserID:         c.cfg.PublicKey,
		TemplateParams: c.TemplateParams(msg),
	})
	if err != nil {
		return &SendError{Err: err}
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.cfg.BaseURL + sendPath)
	if err != nil {
		return &SendError{Err: err}
	}
	if resp.IsError() {
		return &SendError{Status: resp.StatusCode(), Err: errors.New(strings.TrimSpace(resp.String()))}
	}

	log.WithField("template", c.cfg.TemplateID).Info("Contact message sent")
	return nil
}

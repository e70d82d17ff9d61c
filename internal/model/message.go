package model

import "time"

// Message severities shared by all three transient queues.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Display variants for toasts and banners.
const (
	VariantSolid   = "solid"
	VariantOutline = "outline"
	VariantSoft    = "soft"
)

// Message is one transient UI message (toast, banner or notification).
// Queues never share identity space; each keeps its own counter.
type Message struct {
	ID             string        `json:"id"`
	Severity       string        `json:"severity"`
	Title          string        `json:"title,omitempty"`
	Text           string        `json:"message"`
	Variant        string        `json:"variant,omitempty"`
	ActionLabel    string        `json:"action_label,omitempty"`
	ActionURL      string        `json:"action_url,omitempty"`
	AutoClose      bool          `json:"auto_close"`
	AutoCloseDelay time.Duration `json:"-"`
	CreatedAt      time.Time     `json:"created_at"`
}

// MessageOptions tweaks a shown message. Zero values fall back to the
// queue's defaults.
type MessageOptions struct {
	Variant        string
	Title          string
	ActionLabel    string
	ActionURL      string
	AutoClose      *bool
	AutoCloseDelay time.Duration
}

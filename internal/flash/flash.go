// Package flash stores one-shot messages in a cookie across a redirect.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// Kind selects how a message is styled.
type Kind string

const (
	Success Kind = "success"
	Danger  Kind = "danger"
	Info    Kind = "info"
)

// Message is a single flash message.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Manager reads and writes flash cookies.
type Manager struct {
	cookieName string
	maxAge     int
	path       string
}

// NewManager returns a manager whose messages expire after five minutes.
func NewManager() *Manager {
	return &Manager{
		cookieName: "codepane_flash",
		maxAge:     300,
		path:       "/",
	}
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     m.path,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Set stores a message for the next request.
func (m *Manager) Set(w http.ResponseWriter, kind Kind, text string) {
	data, err := json.Marshal(Message{Kind: kind, Text: text})
	if err != nil {
		return
	}
	http.SetCookie(w, m.cookie(base64.RawURLEncoding.EncodeToString(data), m.maxAge))
}

// SetSuccess sets a success message.
func (m *Manager) SetSuccess(w http.ResponseWriter, text string) {
	m.Set(w, Success, text)
}

// SetError sets a danger message.
func (m *Manager) SetError(w http.ResponseWriter, text string) {
	m.Set(w, Danger, text)
}

// Get returns the pending message, if any, and clears the cookie.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *Message {
	msg := m.Peek(r)
	if msg != nil || m.Has(r) {
		http.SetCookie(w, m.cookie("", -1))
	}
	return msg
}

// Peek returns the pending message without clearing it. Malformed cookies yield nil.
func (m *Manager) Peek(r *http.Request) *Message {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil || msg.Text == "" {
		return nil
	}
	if msg.Kind == "" {
		msg.Kind = Info
	}
	return &msg
}

// Has reports whether a flash cookie is present.
func (m *Manager) Has(r *http.Request) bool {
	_, err := r.Cookie(m.cookieName)
	return err == nil
}

// VolunteerHub - Event and Volunteer Registration API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/volunteerhub

package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// RegistrationData fills the registration confirmation template.
type RegistrationData struct {
	Organization string
	EventName    string
	Name         string
	ReplyTo      string
}

// RegistrationConfirmation builds the message sent after a successful
// event registration.
func RegistrationConfirmation(to string, data RegistrationData) (Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "registration.html", data); err != nil {
		return Message{}, fmt.Errorf("render registration email: %w", err)
	}
	text := fmt.Sprintf("Hi %s,\n\nWe're excited for you to join us at %s!\n", data.Name, data.EventName)
	return Message{
		To:      to,
		ReplyTo: data.ReplyTo,
		Subject: fmt.Sprintf("%s Event Registration", data.Organization),
		HTML:    buf.String(),
		Text:    text,
	}, nil
}

package notification

import (
	"fmt"
	"strings"
	"sync"
)

// Template is a reusable message body with {{key}} placeholders.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// TemplateEngine stores templates and renders them with data maps.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine returns an engine with the built-in templates registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "emergency-hospital-alert",
			Subject: "Urgent: {{blood_type}} blood needed",
			Body:    "{{hospital_name}} urgently needs {{amount}} units of {{blood_type}} blood by {{needed_by}} (criticality: {{criticality}}). Check your stock and respond if you can supply.",
		},
		{
			ID:      "emergency-donor-appeal",
			Subject: "Your {{blood_type}} blood can save a life",
			Body:    "Dear {{donor_name}}, {{hospital_name}} needs {{blood_type}} blood by {{needed_by}}. If you are available, please book a donation appointment.",
		},
		{
			ID:      "appointment-reminder",
			Subject: "Donation appointment reminder",
			Body:    "Dear {{donor_name}}, this is a reminder of your donation appointment at {{hospital_name}} on {{date}}.",
		},
		{
			ID:      "appointment-confirmed",
			Subject: "Donation appointment confirmed",
			Body:    "Dear {{donor_name}}, your donation appointment at {{hospital_name}} on {{date}} has been confirmed.",
		},
		{
			ID:      "appointment-cancelled",
			Subject: "Donation appointment cancelled",
			Body:    "Dear {{donor_name}}, your donation appointment at {{hospital_name}} on {{date}} has been cancelled.",
		},
		{
			ID:      "evaluation-result",
			Subject: "Health evaluation result",
			Body:    "Dear {{donor_name}}, your health evaluation from {{date}} is complete. Result: {{result}}.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render performs {{key}} replacement on the template's subject and body.
// Placeholders absent from data are left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

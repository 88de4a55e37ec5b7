package mail

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// Template names accepted by Render.
const (
	TemplateIdentifierRequest    = "identifier_request"
	TemplateStatusUpdate         = "status_update"
	TemplateEscalation           = "escalation"
	TemplateCustomerNotification = "customer_notification"
)

// Rendered is a template expanded with its variables.
type Rendered struct {
	Subject string
	Body    string
}

type templateDef struct {
	subject string
	body    string
}

var catalog = map[string]templateDef{
	TemplateIdentifierRequest: {
		subject: "Shipment status request {{.reference_id}}",
		body: `Hello {{.carrier}} team,

We are assisting a customer with a shipment and need a status update.

Known details:
  Origin: {{.origin}}
  Destination: {{.destination}}
{{- if .pickup_date}}
  Pickup date: {{.pickup_date}}
{{- end}}

Please reply with the PRO number and current status, referencing {{.reference_id}}.

Thank you,
Customer Support`,
	},
	TemplateStatusUpdate: {
		subject: "Status inquiry for PRO {{.pro_number}} ({{.reference_id}})",
		body: `Hello {{.carrier}} team,

Our customer is asking about PRO {{.pro_number}}.
{{- if .last_status}}
Last known status: {{.last_status}}.
{{- end}}

Please reply with the current location and revised delivery estimate, referencing {{.reference_id}}.

Thank you,
Customer Support`,
	},
	TemplateEscalation: {
		subject: "URGENT: escalation for PRO {{.pro_number}} ({{.reference_id}})",
		body: `Hello {{.carrier}} team,

We are escalating PRO {{.pro_number}} on behalf of our customer.
Issue: {{.issue}}

This shipment needs immediate attention. Please respond within 2 business hours, referencing {{.reference_id}}.

Thank you,
Customer Support`,
	},
	TemplateCustomerNotification: {
		subject: "Update on your shipment {{.pro_number}}",
		body: `Hello,

{{.update}}

Your reference number for this inquiry is {{.reference_id}}. We will follow up as soon as we hear back.

Best regards,
Customer Support`,
	},
}

// TemplateNames lists the known template names, sorted for stable output.
func TemplateNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render expands the named template with vars. Unknown template names are an
// error; missing variables render as empty strings.
func Render(name string, vars map[string]string) (Rendered, error) {
	def, ok := catalog[name]
	if !ok {
		return Rendered{}, fmt.Errorf("unknown mail template %q", name)
	}

	subject, err := execute(name+".subject", def.subject, vars)
	if err != nil {
		return Rendered{}, err
	}
	body, err := execute(name+".body", def.body, vars)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Subject: subject, Body: body}, nil
}

func execute(name, text string, vars map[string]string) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return b.String(), nil
}

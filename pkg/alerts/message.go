package alerts

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/ogulcanaydogan/vix-monitor/pkg/threshold"
)

var funcs = template.FuncMap{
	"months": threshold.FormatMonths,
	"level":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"stamp":  func(a Alert) string { return a.GeneratedAt.Format("2006-01-02 15:04:05") },
}

var emailBody = template.Must(template.New("email").Funcs(funcs).Parse(`
{{.Label}} BUYING OPPORTUNITY DETECTED

Current {{.Label}}: {{level .Reading.Value}}
Recommended Action: Buy {{months .Months}} month(s) worth from your reserve
{{if .Strategy}}
Strategy Details:
{{range .Strategy}}- {{.}}
{{end}}{{end}}
Next steps:
1. Log into your brokerage account
2. Purchase {{months .Months}} month(s) worth of your target ETFs
3. Update your tracking spreadsheet

This notification has a {{.CooldownDays}}-day cooldown. You won't receive another alert until the cooldown expires.

---
Automated {{.Label}} Monitor System
{{stamp .}}
`))

var chatBody = template.Must(template.New("chat").Funcs(funcs).Parse(
	"🚨 **{{.Label}} ALERT** 🚨\n\n" +
		"Current {{.Label}}: **{{level .Reading.Value}}**\n" +
		"Action: Buy **{{months .Months}} month(s)** worth from reserve\n\n" +
		"Log into your brokerage account and execute your purchase!"))

// Subject returns the email subject line for an alert.
func Subject(a Alert) string {
	return fmt.Sprintf("🚨 %s Alert: Time to Buy! (%s: %.2f)", a.Label(), a.Label(), a.Reading.Value)
}

// EmailBody renders the plain-text email body.
func EmailBody(a Alert) (string, error) {
	return render(emailBody, a)
}

// ChatText renders the short markdown message used by chat webhooks.
func ChatText(a Alert) (string, error) {
	return render(chatBody, a)
}

func render(t *template.Template, a Alert) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, a); err != nil {
		return "", fmt.Errorf("render %s message: %w", t.Name(), err)
	}
	return buf.String(), nil
}

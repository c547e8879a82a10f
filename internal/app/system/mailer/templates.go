// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// NotificationEmailData holds data for the notification email.
type NotificationEmailData struct {
	SiteName string
	Name     string
	Message  string // plain text, already sanitized
}

// BuildNotificationEmail creates a notification email with both HTML and
// text bodies. To is left for the caller.
func BuildNotificationEmail(data NotificationEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("New notification from %s", data.SiteName),
		TextBody: buildNotificationText(data),
		HTMLBody: buildNotificationHTML(data),
	}
}

func buildNotificationText(data NotificationEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.Name)
	buf.WriteString(data.Message + "\n\n")
	fmt.Fprintf(&buf, "You can view all notifications in %s.\n", data.SiteName)
	return buf.String()
}

var notificationHTML = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="margin:0;padding:24px;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;background-color:#f3f4f6;">
  <div style="max-width:480px;margin:0 auto;background:#ffffff;border-radius:8px;padding:32px;">
    <h1 style="margin:0 0 16px;font-size:20px;color:#4f46e5;">{{.SiteName}}</h1>
    <p style="margin:0 0 12px;color:#111827;">Hi {{.Name}},</p>
    <p style="margin:0 0 12px;color:#111827;">{{.Message}}</p>
    <p style="margin:24px 0 0;font-size:12px;color:#6b7280;">You are receiving this because you have an account on {{.SiteName}}.</p>
  </div>
</body>
</html>
`))

func buildNotificationHTML(data NotificationEmailData) string {
	var buf bytes.Buffer
	_ = notificationHTML.Execute(&buf, data)
	return buf.String()
}

package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h2>Welcome to {{.AppName}}, {{.Name}}!</h2>
<p>{{if .InvitedBy}}{{.InvitedBy}} has added you{{else}}You have been added{{end}} to the team on {{.AppName}}.</p>
<p>Your login credentials:</p>
<table cellpadding="4">
<tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
<tr><td><strong>Temporary password</strong></td><td><code>{{.TemporaryPassword}}</code></td></tr>
</table>
{{if .LoginURL}}<p><a href="{{.LoginURL}}">Sign in to {{.AppName}}</a></p>{{end}}
<p>Please change your password after your first sign-in.</p>
</body></html>`))

var timesheetTmpl = template.Must(template.New("timesheet").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h2>Timesheet submission: {{.EmployeeName}}</h2>
{{if .Period}}<p>Period: {{.Period}}</p>{{end}}
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse:collapse">
<thead><tr><th>Project</th><th>Task</th><th>Hours</th></tr></thead>
<tbody>
{{range .Lines}}<tr><td>{{.Project}}</td><td>{{.Task}}</td><td align="right">{{printf "%.2f" .Hours}}</td></tr>
{{else}}<tr><td colspan="3">No entries</td></tr>
{{end}}</tbody>
<tfoot><tr><td colspan="2"><strong>Total</strong></td><td align="right"><strong>{{printf "%.2f" .TotalHours}}</strong></td></tr></tfoot>
</table>
<p>Sent from {{.AppName}}.</p>
</body></html>`))

// WelcomeData 欢迎邮件数据
type WelcomeData struct {
	AppName           string
	Name              string
	Email             string
	TemporaryPassword string
	LoginURL          string
	InvitedBy         string
}

// TimesheetLine 汇总行
type TimesheetLine struct {
	Project string
	Task    string
	Hours   float64
}

// TimesheetData 工时汇总邮件数据
type TimesheetData struct {
	AppName      string
	EmployeeName string
	Period       string
	Lines        []TimesheetLine
	TotalHours   float64
}

// WelcomeMessage 新成员欢迎邮件
func WelcomeMessage(to string, data WelcomeData) (*Message, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("渲染欢迎邮件失败: %w", err)
	}
	return &Message{
		To:        []string{to},
		Subject:   fmt.Sprintf("Welcome to %s", data.AppName),
		HTML:      buf.String(),
		Sensitive: true,
	}, nil
}

// TimesheetMessage 工时汇总邮件
func TimesheetMessage(to string, data TimesheetData) (*Message, error) {
	var buf bytes.Buffer
	if err := timesheetTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("渲染工时邮件失败: %w", err)
	}
	subject := fmt.Sprintf("Timesheet submission from %s", data.EmployeeName)
	if data.Period != "" {
		subject += " (" + data.Period + ")"
	}
	return &Message{
		To:      []string{to},
		Subject: subject,
		HTML:    buf.String(),
	}, nil
}

package services

import (
	"bytes"
	"fmt"
	"html/template"
	"legal_nexus_go/config"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Prefer HTML if available
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email asynchronously using a goroutine.
// Recommended in handlers to avoid blocking HTTP responses.
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

var overdueCaseHTML = template.Must(template.New("overdue_case").Parse(`
<p>Hello {{.LawyerName}},</p>
<p>Case <strong>#{{.CaseNumber}}</strong> ({{.Title}}) is overdue by {{.OverdueDays}} day(s).</p>
<p>Please review it as soon as possible: <a href="{{.CaseURL}}">{{.CaseURL}}</a></p>
`))

// OverdueCaseEmailData contains data for the overdue case reminder email
type OverdueCaseEmailData struct {
	LawyerName  string
	CaseNumber  string
	Title       string
	OverdueDays int
	CaseURL     string
}

// BuildOverdueCaseEmail creates a reminder email for an overdue case
func BuildOverdueCaseEmail(lawyerEmail string, data OverdueCaseEmailData) *Email {
	var buf bytes.Buffer
	if err := overdueCaseHTML.Execute(&buf, data); err != nil {
		log.Printf("Error rendering overdue case email: %v", err)
	}

	return &Email{
		To:      []string{lawyerEmail},
		Subject: fmt.Sprintf("Overdue: case #%s", data.CaseNumber),
		HTMLBody: buf.String(),
		TextBody: fmt.Sprintf("Hello %s,\n\nCase #%s (%s) is overdue by %d day(s).\nPlease review it as soon as possible: %s\n",
			data.LawyerName, data.CaseNumber, data.Title, data.OverdueDays, data.CaseURL),
	}
}

// AssignmentEmailData contains data for the lawyer assignment email
type AssignmentEmailData struct {
	LawyerName string
	CaseNumber string
	Title      string
	CaseURL    string
}

// BuildAssignmentEmail creates an assignment notification email for lawyers
func BuildAssignmentEmail(lawyerEmail string, data AssignmentEmailData) *Email {
	return &Email{
		To:      []string{lawyerEmail},
		Subject: fmt.Sprintf("New case assignment: #%s", data.CaseNumber),
		TextBody: fmt.Sprintf("Hello %s,\n\nYou have been assigned to case #%s (%s).\nView it here: %s\n",
			data.LawyerName, data.CaseNumber, data.Title, data.CaseURL),
	}
}

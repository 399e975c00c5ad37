package mail

import (
	"fmt"

	"github.com/sfrp-tup/helpline/internal/domain"
)

// The templates below follow the HelpLine email conventions: a short
// multipart message with an HTML alternative and a link back to the
// relevant detail page.

// SubmissionConfirmation is sent to the submitter after a request is
// created.
func SubmissionConfirmation(userName string, req *domain.Request, requestURL string) Message {
	typeName := req.Type.DisplayName()
	subject := fmt.Sprintf("Your Request #%d Has Been Submitted Successfully", req.ID)

	html := fmt.Sprintf(`
		<html>
		<body>
			<h2>Hello %s,</h2>
			<p>Your %s <strong>#%d - %s</strong> has been received and will be reviewed by our support team.</p>
			<p>You can follow its progress here:</p>
			<p><a href="%s">%s</a></p>
			<p>Thank you for reaching out to the SFRP-TUP HelpLine.</p>
		</body>
		</html>
	`, userName, typeName, req.ID, req.Subject, requestURL, requestURL)

	text := fmt.Sprintf(`Hello %s,

Your %s #%d - %s has been received and will be reviewed by our support team.

Follow its progress here:
%s

Thank you for reaching out to the SFRP-TUP HelpLine.
`, userName, typeName, req.ID, req.Subject, requestURL)

	return Message{Subject: subject, HTMLBody: html, TextBody: text}
}

// AdminSubmissionAlert is sent to the configured admin address when any
// request is submitted.
func AdminSubmissionAlert(req *domain.Request, submitterName, dashboardURL string) Message {
	typeName := req.Type.DisplayName()
	subject := fmt.Sprintf("New %s Submitted: #%d - %s", typeName, req.ID, req.Subject)

	html := fmt.Sprintf(`
		<html>
		<body>
			<h2>New %s</h2>
			<p><strong>#%d - %s</strong> submitted by %s.</p>
			<p>%s</p>
			<p><a href="%s">Open in the support dashboard</a></p>
		</body>
		</html>
	`, typeName, req.ID, req.Subject, submitterName, req.Body(), dashboardURL)

	text := fmt.Sprintf(`New %s

#%d - %s submitted by %s.

%s

Open in the support dashboard: %s
`, typeName, req.ID, req.Subject, submitterName, req.Body(), dashboardURL)

	return Message{Subject: subject, HTMLBody: html, TextBody: text}
}

// StatusUpdateNotice is sent to the submitter when staff change the
// status of their request.
func StatusUpdateNotice(userName string, req *domain.Request, oldStatus, newStatus domain.RequestStatus, requestURL string) Message {
	subject := fmt.Sprintf("Your Request #%d Status Update: %s", req.ID, newStatus.DisplayName())

	html := fmt.Sprintf(`
		<html>
		<body>
			<h2>Hello %s,</h2>
			<p>The status of your %s <strong>#%d - %s</strong> changed from %s to <strong>%s</strong>.</p>
			<p><a href="%s">View your request</a></p>
		</body>
		</html>
	`, userName, req.Type.DisplayName(), req.ID, req.Subject, oldStatus.DisplayName(), newStatus.DisplayName(), requestURL)

	text := fmt.Sprintf(`Hello %s,

The status of your %s #%d - %s changed from %s to %s.

View your request: %s
`, userName, req.Type.DisplayName(), req.ID, req.Subject, oldStatus.DisplayName(), newStatus.DisplayName(), requestURL)

	return Message{Subject: subject, HTMLBody: html, TextBody: text}
}

// AssignmentNotice is sent to the staff member a request was assigned to.
func AssignmentNotice(staffName string, req *domain.Request, dashboardURL string) Message {
	subject := fmt.Sprintf("New Request Assigned To You: #%d - %s", req.ID, req.Subject)

	html := fmt.Sprintf(`
		<html>
		<body>
			<h2>Hello %s,</h2>
			<p>The %s <strong>#%d - %s</strong> (status: %s) has been assigned to you.</p>
			<p><a href="%s">Open in the support dashboard</a></p>
		</body>
		</html>
	`, staffName, req.Type.DisplayName(), req.ID, req.Subject, req.Status.DisplayName(), dashboardURL)

	text := fmt.Sprintf(`Hello %s,

The %s #%d - %s (status: %s) has been assigned to you.

Open in the support dashboard: %s
`, staffName, req.Type.DisplayName(), req.ID, req.Subject, req.Status.DisplayName(), dashboardURL)

	return Message{Subject: subject, HTMLBody: html, TextBody: text}
}

// OverdueAlert is sent to all active staff for each newly overdue
// request.
func OverdueAlert(req *domain.Request, dashboardURL string) Message {
	typeName := req.Type.DisplayName()
	subject := fmt.Sprintf("Urgent: Overdue %s #%d - %s", typeName, req.ID, req.Subject)

	html := fmt.Sprintf(`
		<html>
		<body>
			<h2>Overdue %s</h2>
			<p><strong>#%d - %s</strong> has been in status %s since %s without an update.</p>
			<p><a href="%s">Open in the support dashboard</a></p>
		</body>
		</html>
	`, typeName, req.ID, req.Subject, req.Status.DisplayName(), req.UpdatedAt.Format("2006-01-02 15:04"), dashboardURL)

	text := fmt.Sprintf(`Request Type: %s
ID: %d
Subject: %s
Last Updated: %s
Status: %s
View Details: %s
`, typeName, req.ID, req.Subject, req.UpdatedAt.Format("2006-01-02 15:04"), req.Status.DisplayName(), dashboardURL)

	return Message{Subject: subject, HTMLBody: html, TextBody: text}
}

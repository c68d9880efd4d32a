package mailer

import "context"

// Message is a fully rendered email ready for dispatch. Template logic
// lives upstream; the mailer only moves bytes.
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	Context  map[string]string
}

// Mailer delivers a single message. Implementations must be safe for
// concurrent use; the reminder pipeline fans out sends per student.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

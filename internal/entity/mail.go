package entity

import "time"

// SendEmailRequest represents the send_email_requests outbox table.
type SendEmailRequest struct {
	ID        int        `db:"id" json:"id"`
	To        string     `db:"to" json:"to"`
	Subject   string     `db:"subject" json:"subject"`
	Html      string     `db:"html" json:"html"`
	Sent      bool       `db:"sent" json:"sent"`
	SentAt    *time.Time `db:"sent_at" json:"sentAt,omitempty"`
	ErrMsg    *string    `db:"error_msg" json:"errMsg,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

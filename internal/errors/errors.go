package gerr

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrEndDateRequired  = errors.New("end date required for service with expiration")
	BadMailRequest      = errors.New("bad mail request")
	MailApiLimitReached = errors.New("mail api limit reached")
)

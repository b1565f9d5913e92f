package mail

import (
	"context"
	"fmt"

	"github.com/aminejameli/dropservices-manager/internal/entity"
)

const (
	ExpiryDigest = "expiry_digest.gohtml"
)

var templateSubjects = map[string]string{
	ExpiryDigest: "Orders need your attention",
}

// SendExpiryDigest emails the expired and expiring-soon worklist to the
// panel admin.
func (m *Mailer) SendExpiryDigest(ctx context.Context, to string, wl *entity.ExpiryWorklist) (*entity.SendEmailRequest, error) {
	if wl == nil || wl.Total == 0 {
		return nil, fmt.Errorf("empty worklist")
	}

	ser, err := m.buildSendMailRequest(to, ExpiryDigest, struct {
		Notifications []string
		Rows          []entity.ExpiryRow
	}{
		Notifications: wl.Notifications(),
		Rows:          wl.Rows,
	})
	if err != nil {
		return nil, err
	}
	return m.sendWithInsert(ctx, ser)
}

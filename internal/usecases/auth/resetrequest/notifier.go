package resetrequest

import (
	"context"
	"fmt"
	"time"

	"notifyhub/internal/models"
	"notifyhub/internal/usecases"
	"notifyhub/internal/usecases/notification/send"
)

// DispatchNotifier delivers the reset notification through the regular
// dispatch pipeline, on the password-reset context over the email channel.
type DispatchNotifier struct {
	dispatch     *send.Service
	resetURLBase string
}

func NewDispatchNotifier(dispatch *send.Service, resetURLBase string) *DispatchNotifier {
	return &DispatchNotifier{dispatch: dispatch, resetURLBase: resetURLBase}
}

func (n *DispatchNotifier) NotifyResetRequested(ctx context.Context, user *models.User, token string, expiresAt time.Time) error {
	_, err := usecases.Run[send.Input, *send.Output](ctx, n.dispatch, send.Input{
		Context:  models.ContextPasswordReset.String(),
		Channel:  models.ChannelEmail.String(),
		TenantID: tenantForDispatch(user.TenantID),
		To: send.Recipient{
			Name:  user.Name,
			Email: user.Email.String(),
		},
		Variables: map[string]string{
			"name":      user.Name,
			"resetUrl":  fmt.Sprintf("%s?token=%s", n.resetURLBase, token),
			"token":     token,
			"expiresAt": expiresAt.Format(time.RFC3339),
		},
	})
	return err
}

// tenantForDispatch keeps the system sentinel implicit on the wire.
func tenantForDispatch(t models.TenantID) string {
	if t.IsSystem() {
		return ""
	}
	return t.String()
}

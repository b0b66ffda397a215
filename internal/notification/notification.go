// Package notification is the outbound mail gateway. Every call from the
// service layer is fire-and-forget: a delivery failure is logged by the
// caller and never aborts the operation it is attached to.
package notification

import "context"

// Mailer sends transactional mail to users.
type Mailer interface {
	SendActivation(ctx context.Context, email, name, token string) error
	SendPasswordReset(ctx context.Context, email, name, token string) error
}

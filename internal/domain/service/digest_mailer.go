package service

import "context"

// DigestMailer delivers one rendered digest to one recipient address. A
// failure is attributable to exactly that recipient and is non-fatal to the
// send pass; the core makes a single best-effort attempt per recipient.
type DigestMailer interface {
	Send(ctx context.Context, address, subject, body string) error
}

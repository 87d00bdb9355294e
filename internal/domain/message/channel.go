package message

import (
	"context"
	"fmt"
	"time"
)

// PromptPrefix marks every message this engine authors. Poll implementations
// must exclude prefixed messages so the engine never mistakes its own prompt
// for a reply when sender and recipient share one identity.
const PromptPrefix = "Golf booker"

// Channel is the messaging integration used to prompt a human and read the
// reply. Reads are point-in-time snapshots with no mutation.
type Channel interface {
	// Send delivers text to the recipient. A transport-level failure is
	// returned as *DeliveryError.
	Send(ctx context.Context, recipient, text string) error

	// PollForReply returns the most recent inbound message from recipient
	// strictly after since, excluding messages starting with PromptPrefix.
	// ok is false when no such message exists.
	PollForReply(ctx context.Context, recipient string, since time.Time) (text string, ok bool, err error)
}

// DeliveryError reports a failed send.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

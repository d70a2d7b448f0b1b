// Package sink contains delivery adapters for outgoing geomessages.
package sink

import "github.com/tfontaine/geosim/pkg/geomessage"

// Sink accepts one outgoing geomessage at a time. Delivery is best-effort:
// the scheduler reports a failed Send and continues with the next record.
type Sink interface {
	Send(msg geomessage.Message) error
	Close() error
}

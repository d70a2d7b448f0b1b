package scheduler

import "github.com/tfontaine/geosim/pkg/geomessage"

// Observer receives playback progress notifications. Callbacks run on the
// scheduler's tick goroutine and must return quickly; they must not call
// back into the scheduler's lifecycle methods.
type Observer interface {
	// MessageReady fires after a rewritten message has been handed to
	// the sink.
	MessageReady(msg geomessage.Message)
	// Advanced fires after MessageReady with the new cursor position.
	Advanced(index int)
	// DeliveryFailed fires when the sink rejects a message. Playback
	// continues regardless.
	DeliveryFailed(err error)
	// StreamEnded fires once a tick obtains no records.
	StreamEnded()
}

// ObserverFuncs adapts plain functions to the Observer interface. Nil
// members are skipped.
type ObserverFuncs struct {
	OnMessageReady   func(msg geomessage.Message)
	OnAdvanced       func(index int)
	OnDeliveryFailed func(err error)
	OnStreamEnded    func()
}

func (o ObserverFuncs) MessageReady(msg geomessage.Message) {
	if o.OnMessageReady != nil {
		o.OnMessageReady(msg)
	}
}

func (o ObserverFuncs) Advanced(index int) {
	if o.OnAdvanced != nil {
		o.OnAdvanced(index)
	}
}

func (o ObserverFuncs) DeliveryFailed(err error) {
	if o.OnDeliveryFailed != nil {
		o.OnDeliveryFailed(err)
	}
}

func (o ObserverFuncs) StreamEnded() {
	if o.OnStreamEnded != nil {
		o.OnStreamEnded()
	}
}

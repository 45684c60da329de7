// Package events provides the publisher used when no broker is configured.
package events

import "bankcore/internal/interfaces"

// NopPublisher discards every event. The demo runs fully standalone with it.
type NopPublisher struct{}

func (NopPublisher) Publish(topic string, event any) error { return nil }

var _ interfaces.EventPublisher = NopPublisher{}

package interfaces

// EventPublisher delivers committed-operation events to downstream
// consumers. Publishing happens after the commit; a publish failure must not
// roll the operation back.
type EventPublisher interface {
	Publish(topic string, event any) error
}

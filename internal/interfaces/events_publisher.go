package interfaces

// EventPublisher emits domain events (transfer completed) to an external
// broker. Publishing is best-effort: a failed publish never fails the
// operation that produced the event.
type EventPublisher interface {
	Publish(topic string, event any) error
}

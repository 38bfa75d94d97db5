package events

// Message is a raw event payload and the subject it arrived on.
type Message struct {
	Topic string
	ID    string // Archscore-Event-Id header, if any
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}

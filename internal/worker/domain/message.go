package domain

// Acknowledger settles a delivery with the broker. *amqp.Channel satisfies it.
type Acknowledger interface {
	Ack(tag uint64, multiple bool) error
	Nack(tag uint64, multiple bool, requeue bool) error
}

// NotificationMessage is a feedback notification taken off the queue
type NotificationMessage struct {
	FeedbackID  string `json:"feedback_id"`
	DeliveryTag uint64 `json:"-"`
	// Redelivered is set when the broker has handed this message out before
	Redelivered bool         `json:"-"`
	Ack         Acknowledger `json:"-"`
}

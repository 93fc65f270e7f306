package utils

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

func DeclareQueue(name string, ch *amqp.Channel) (queue amqp.Queue, err error) {
	queue, err = ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return
	}
	// One job at a time per worker
	if err = ch.Qos(1, 0, false); err != nil {
		return
	}
	return
}

// Message will be re-added to the queue
func FailOnNack(d amqp.Delivery, err error) {
	log.Printf("WARN Queue: could not handle message %s: %v", d.CorrelationId, err)
	if err = d.Nack(false, true); err != nil {
		log.Fatalf("Could not NACK to message queue: %v", err)
	}
}

// Message is dropped (it can never be handled)
func FailOnReject(d amqp.Delivery, err error) {
	log.Printf("WARN Queue: rejecting message %s: %v", d.CorrelationId, err)
	if err = d.Reject(false); err != nil {
		log.Fatalf("Could not REJECT message: %v", err)
	}
}

// Private queue for the replies of a single client: server named, exclusive
// to this connection and deleted with it
func DeclareReplyQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

package node

import (
	"context"
	"fmt"
	"time"

	"github.com/lioia/sparse-pagerank/pkg/graph"
	"github.com/lioia/sparse-pagerank/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	protobuf "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const contentType = "application/x-protobuf"

// Satisfied by *amqp.Channel
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Work consumes rank jobs from the work queue until ctx is done or the
// delivery channel is closed
func (n *Node) Work(ctx context.Context) error {
	msgs, err := n.Queue.Channel.Consume(
		n.Queue.Work.Name, // queue
		"",                // consumer
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		return fmt.Errorf("could not register a consumer for %s queue: %w", n.Queue.Work.Name, err)
	}
	utils.NodeLog(RoleToString(n.Role), "Registered consumer for queue %s", n.Queue.Work.Name)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			n.HandleJob(ctx, n.Queue.Channel, n.Queue.Result.Name, d)
		}
	}
}

// HandleJob ranks the graph carried by d and publishes the outcome to the
// job's ReplyTo queue, or to resultQueue when the job has none.
// An invalid graph still produces a result (with Error set);
// undecodable messages are rejected, failed publications requeued
func (n *Node) HandleJob(ctx context.Context, pub Publisher, resultQueue string, d amqp.Delivery) {
	role := RoleToString(n.Role)
	var job wrapperspb.BytesValue
	if err := protobuf.Unmarshal(d.Body, &job); err != nil {
		utils.FailOnReject(d, err)
		return
	}
	utils.NodeLog(role, "Computing job %s", d.CorrelationId)
	outcome, err := n.Rank("amqp", job.GetValue(), graph.FormatPages, DefaultDampener)
	if err != nil {
		outcome = Outcome{Error: err.Error()}
	}
	data, err := protobuf.Marshal(OutcomeToStruct(outcome))
	if err != nil {
		utils.FailOnNack(d, err)
		return
	}
	replyTo := d.ReplyTo
	if replyTo == "" {
		replyTo = resultQueue
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = pub.PublishWithContext(ctx,
		"",
		replyTo, // routing key
		false,       // mandatory
		false,
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   contentType,
			CorrelationId: d.CorrelationId,
			Body:          data,
		})
	if err != nil {
		utils.FailOnNack(d, err)
		return
	}
	// Ack
	if err := d.Ack(false); err != nil {
		utils.WarnLog(role, "Could not ack job %s: %v", d.CorrelationId, err)
		return
	}
	utils.NodeLog(role, "Completed job %s to %s", d.CorrelationId, replyTo)
}

// PublishJob sends contents (pages format) to queue; the returned id is the
// correlation id of the eventual result, published to replyTo
// (or to the shared result queue if replyTo is empty)
func PublishJob(ctx context.Context, pub Publisher, queue, replyTo string, contents []byte) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	data, err := protobuf.Marshal(wrapperspb.Bytes(contents))
	if err != nil {
		return "", err
	}
	err = pub.PublishWithContext(ctx,
		"",
		queue, // routing key
		false, // mandatory
		false,
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   contentType,
			CorrelationId: id,
			ReplyTo:       replyTo,
			Body:          data,
		})
	return id, err
}

// DecodeResult reads a message from the result queue
func DecodeResult(d amqp.Delivery) (Outcome, error) {
	var result structpb.Struct
	if err := protobuf.Unmarshal(d.Body, &result); err != nil {
		return Outcome{}, err
	}
	return OutcomeFromStruct(&result), nil
}

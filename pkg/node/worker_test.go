package node_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lioia/sparse-pagerank/pkg/node"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protobuf "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakePublisher struct {
	messages []published
	err      error
}

func (p *fakePublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{key: key, msg: msg})
	return nil
}

type fakeAcknowledger struct {
	acks, nacks, rejects int
	requeued             bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.acks += 1
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks += 1
	a.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.rejects += 1
	a.requeued = requeue
	return nil
}

func job(t *testing.T, contents, replyTo string, ack amqp.Acknowledger) amqp.Delivery {
	t.Helper()
	pub := &fakePublisher{}
	id, err := node.PublishJob(context.Background(), pub, "work", replyTo, []byte(contents))
	require.NoError(t, err)
	require.Len(t, pub.messages, 1)
	msg := pub.messages[0].msg
	return amqp.Delivery{
		Acknowledger:  ack,
		CorrelationId: id,
		ReplyTo:       msg.ReplyTo,
		ContentType:   msg.ContentType,
		Body:          msg.Body,
	}
}

func TestPublishJob(t *testing.T) {
	pub := &fakePublisher{}
	id, err := node.PublishJob(context.Background(), pub, "work", "amq.gen-reply", []byte(dangling))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, "work", pub.messages[0].key)
	msg := pub.messages[0].msg
	assert.Equal(t, id, msg.CorrelationId)
	assert.Equal(t, "application/x-protobuf", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "amq.gen-reply", msg.ReplyTo)
	var body wrapperspb.BytesValue
	require.NoError(t, protobuf.Unmarshal(msg.Body, &body))
	assert.Equal(t, dangling, string(body.GetValue()))

	other, err := node.PublishJob(context.Background(), pub, "work", "", []byte(dangling))
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestHandleJob(t *testing.T) {
	ack := &fakeAcknowledger{}
	d := job(t, dangling, "", ack)
	pub := &fakePublisher{}
	n := &node.Node{Role: node.Worker, Metrics: node.NewMetrics()}
	n.HandleJob(context.Background(), pub, "result", d)

	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.nacks+ack.rejects)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, "result", pub.messages[0].key)
	result := pub.messages[0].msg
	assert.Equal(t, d.CorrelationId, result.CorrelationId)

	outcome, err := node.DecodeResult(amqp.Delivery{Body: result.Body})
	require.NoError(t, err)
	assert.Empty(t, outcome.Error)
	require.Len(t, outcome.Ranks, 2)
	assert.Greater(t, outcome.Ranks[1].Score, outcome.Ranks[0].Score)
}

func TestHandleJob_RepliesToReplyQueue(t *testing.T) {
	ack := &fakeAcknowledger{}
	d := job(t, dangling, "amq.gen-client", ack)
	pub := &fakePublisher{}
	(&node.Node{Role: node.Worker}).HandleJob(context.Background(), pub, "result", d)

	assert.Equal(t, 1, ack.acks)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, "amq.gen-client", pub.messages[0].key)
	assert.Equal(t, d.CorrelationId, pub.messages[0].msg.CorrelationId)
}

func TestHandleJob_InvalidGraph(t *testing.T) {
	ack := &fakeAcknowledger{}
	pub := &fakePublisher{}
	(&node.Node{}).HandleJob(context.Background(), pub, "result", job(t, "1 0.85 1 A 1 A B", "", ack))

	// The submitter still gets an answer
	assert.Equal(t, 1, ack.acks)
	require.Len(t, pub.messages, 1)
	outcome, err := node.DecodeResult(amqp.Delivery{Body: pub.messages[0].msg.Body})
	require.NoError(t, err)
	assert.Contains(t, outcome.Error, "invalid graph")
	assert.Empty(t, outcome.Ranks)
}

func TestHandleJob_UndecodableMessage(t *testing.T) {
	ack := &fakeAcknowledger{}
	pub := &fakePublisher{}
	d := amqp.Delivery{Acknowledger: ack, CorrelationId: "x", Body: []byte{0xff, 0xff, 0xff}}
	(&node.Node{}).HandleJob(context.Background(), pub, "result", d)

	assert.Equal(t, 1, ack.rejects)
	assert.False(t, ack.requeued)
	assert.Zero(t, ack.acks)
	assert.Empty(t, pub.messages)
}

func TestHandleJob_PublishFailureRequeues(t *testing.T) {
	ack := &fakeAcknowledger{}
	pub := &fakePublisher{err: errors.New("channel closed")}
	(&node.Node{}).HandleJob(context.Background(), pub, "result", job(t, dangling, "", ack))

	assert.Equal(t, 1, ack.nacks)
	assert.True(t, ack.requeued)
	assert.Zero(t, ack.acks)
}

func TestDecodeResult_Garbage(t *testing.T) {
	_, err := node.DecodeResult(amqp.Delivery{Body: []byte{0xff, 0xff, 0xff}})
	require.Error(t, err)
}

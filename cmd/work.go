package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/lioia/sparse-pagerank/pkg/node"
	"github.com/lioia/sparse-pagerank/pkg/utils"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Consume rank jobs from WORK_QUEUE and publish results to RESULT_QUEUE",
	Args:  cobra.NoArgs,
	RunE:  runWork,
}

func init() {
	rootCmd.AddCommand(workCmd)
}

// Connect to RabbitMQ and declare both queues
func openQueue() node.Queue {
	queueConn, err := amqp.Dial(env.RabbitUrl())
	utils.FailOnError("Could not connect to RabbitMQ", err)
	ch, err := queueConn.Channel()
	utils.FailOnError("Failed to open a channel to RabbitMQ", err)
	work, err := utils.DeclareQueue(env.WorkQueue, ch)
	utils.FailOnError("Failed to declare '%s' queue", err, env.WorkQueue)
	result, err := utils.DeclareQueue(env.ResultQueue, ch)
	utils.FailOnError("Failed to declare '%s' queue", err, env.ResultQueue)
	return node.Queue{Conn: queueConn, Channel: ch, Work: &work, Result: &result}
}

func runWork(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue := openQueue()
	defer queue.Conn.Close()
	defer queue.Channel.Close()
	n := &node.Node{
		Role:          node.Worker,
		Connection:    env.RabbitHost,
		MaxIterations: env.MaxIterations,
		Queue:         queue,
	}
	utils.NodeLog(node.RoleToString(n.Role), "Waiting for jobs on %s. To exit press CTRL+C", queue.Work.Name)
	if err := n.Work(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

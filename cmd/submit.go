package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lioia/sparse-pagerank/pkg/node"
	"github.com/lioia/sparse-pagerank/pkg/pagerank"
	"github.com/lioia/sparse-pagerank/pkg/utils"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var submitCmd = &cobra.Command{
	Use:   "submit graph",
	Short: "Send a graph (pages format) to a ranker server or to the work queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().String("server", "127.0.0.1:50051", "ranker gRPC server")
	submitCmd.Flags().Bool("queue", false, "publish to WORK_QUEUE and wait on RESULT_QUEUE instead")
	submitCmd.Flags().Duration("timeout", 30*time.Second, "time to wait for the result")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	contents, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	var outcome node.Outcome
	if viaQueue, _ := cmd.Flags().GetBool("queue"); viaQueue {
		outcome, err = submitToQueue(cmd.Context(), contents, timeout)
	} else {
		server, _ := cmd.Flags().GetString("server")
		outcome, err = submitToServer(server, contents, timeout)
	}
	if err != nil {
		return err
	}
	if outcome.Error != "" {
		return fmt.Errorf("remote error: %s", outcome.Error)
	}
	utils.NodeLog("client", "Received results (%d iterations, mass %.6f)", outcome.Iterations, outcome.Mass)
	return pagerank.WriteReport(cmd.OutOrStdout(), outcome.Ranks)
}

func submitToServer(server string, contents []byte, timeout time.Duration) (node.Outcome, error) {
	client, err := utils.Dial(server, timeout)
	if err != nil {
		return node.Outcome{}, err
	}
	defer client.Close()
	result, err := node.NewRankerClient(client.Conn).Rank(client.Ctx, wrapperspb.Bytes(contents))
	if err != nil {
		return node.Outcome{}, err
	}
	return node.OutcomeFromStruct(result), nil
}

func submitToQueue(ctx context.Context, contents []byte, timeout time.Duration) (node.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	queue := openQueue()
	defer queue.Conn.Close()
	defer queue.Channel.Close()

	reply, err := utils.DeclareReplyQueue(queue.Channel)
	if err != nil {
		return node.Outcome{}, err
	}
	msgs, err := queue.Channel.Consume(
		reply.Name, // queue
		"",         // consumer
		false,      // auto-ack
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return node.Outcome{}, err
	}
	id, err := node.PublishJob(ctx, queue.Channel, queue.Work.Name, reply.Name, contents)
	if err != nil {
		return node.Outcome{}, err
	}
	utils.NodeLog("client", "Published job %s (replies on %s)", id, reply.Name)
	for {
		select {
		case <-ctx.Done():
			return node.Outcome{}, fmt.Errorf("waiting for job %s: %w", id, ctx.Err())
		case d, ok := <-msgs:
			if !ok {
				return node.Outcome{}, fmt.Errorf("reply queue closed before job %s completed", id)
			}
			if err := d.Ack(false); err != nil {
				return node.Outcome{}, err
			}
			// Only this client publishes jobs replying here
			if d.CorrelationId != id {
				utils.WarnLog("client", "Dropping unexpected reply %s", d.CorrelationId)
				continue
			}
			return node.DecodeResult(d)
		}
	}
}

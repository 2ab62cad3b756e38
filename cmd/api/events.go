package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// newEventsCmd 领域事件调试工具
//
//	bookshelf events tail              # 全部事件
//	bookshelf events tail -k "book.*"  # 只看图书事件
func newEventsCmd(env envFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "领域事件工具",
	}

	var routingKeys []string
	var queue string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "订阅并打印领域事件(Ctrl+C退出)",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, log, cleanupLog, err := env()
			if err != nil {
				return err
			}
			defer cleanupLog()
			metrics.InitMetrics()

			consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, queue, routingKeys, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := consumer.Close(); err != nil {
					log.Warn("关闭消费者失败", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := c.OutOrStdout()
			return consumer.Consume(ctx, func(msg mq.Message) error {
				start := time.Now()
				fmt.Fprintf(out, "%s\t%s\t%s\n", msg.Timestamp.Format(time.RFC3339), msg.RoutingKey, msg.Body)
				metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": consumer.Queue(), "result": "ok"})
				metrics.ObserveHistogram(metrics.MessageProcessingDuration, time.Since(start).Seconds())
				return nil
			})
		},
	}
	tail.Flags().StringSliceVarP(&routingKeys, "key", "k", []string{"#"}, "routing key(支持*和#通配符)")
	tail.Flags().StringVarP(&queue, "queue", "q", "", "队列名(为空时使用临时队列)")
	cmd.AddCommand(tail)

	return cmd
}


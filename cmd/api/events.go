package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/logger"
	"github.com/xiebiao/bookstore-api/pkg/mq"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "订阅RabbitMQ中的图书事件并写入日志",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return tailEvents(cmd.Context())
	},
}

// tailEvents 消费book.*事件直到收到退出信号
func tailEvents(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	log, cleanup, err := logger.Provide(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, cfg.MQ.Queue,
		[]string{appbook.EventRoutingPattern}, log)
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = consumer.Consume(ctx, appbook.NewEventLogHandler(log))
	if errors.Is(err, mq.ErrDeliveriesClosed) && ctx.Err() != nil {
		return nil
	}
	return err
}

package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"pricelist/internal/models"
	"pricelist/pkg/rabbitmq"
)

// EventsAction logs catalog events as they arrive.
func EventsAction(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.RabbitMQ.URL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}

	queue := cfg.RabbitMQ.Queue
	if q := cmd.String("queue"); q != "" {
		queue = q
	}

	mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: queue}, logger)
	if err != nil {
		return err
	}
	defer mq.Close()

	return mq.ConsumeProductEvents(ctx, func(event models.ProductEvent) error {
		logger.Info().
			Str("type", string(event.Type)).
			Uint("product_id", event.ProductID).
			Str("article_no", event.ArticleNo).
			Time("occurred_at", event.OccurredAt).
			Msg("catalog event")
		return nil
	})
}

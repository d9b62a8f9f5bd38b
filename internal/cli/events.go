package cli

import (
	"fmt"

	"kikisite/internal/config"
	"kikisite/pkg/logger"
	"kikisite/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

func NewEventsCommand() *cobra.Command {
	var binding string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail content events published by the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log := logger.New(cfg.Log)
			if cfg.Events.URL == "" {
				return fmt.Errorf("RABBITMQ_URL is not set")
			}

			mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.Events.URL, Exchange: cfg.Events.Exchange}, log)
			if err != nil {
				return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
			}
			defer mqClient.Close()

			return mqClient.Consume(binding, func(msg amqp.Delivery) error {
				log.Info().
					Str("routing_key", msg.RoutingKey).
					RawJSON("event", msg.Body).
					Msg("Content event")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&binding, "bind", "#", "routing key pattern, e.g. article.*")
	return cmd
}

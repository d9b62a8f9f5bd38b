package services

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Routing keys of content events.
const (
	EventArticleCreated = "article.created"
	EventArticleUpdated = "article.updated"
	EventArticleDeleted = "article.deleted"
	EventImageCreated   = "image.created"
	EventImageDeleted   = "image.deleted"
)

// EventPublisher sends content change notifications, e.g. so the page
// renderer can rebuild cached pages. pkg/rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ContentEvent is the body of a published event.
type ContentEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Slug string `json:"slug,omitempty"`
}

// publishEvent logs failures and never returns them.
func publishEvent(publisher EventPublisher, log zerolog.Logger, event ContentEvent) {
	if publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Type).Msg("Failed to marshal content event")
		return
	}
	if err := publisher.Publish(event.Type, body); err != nil {
		log.Warn().Err(err).Str("event", event.Type).Str("id", event.ID).Msg("Failed to publish content event")
		return
	}
	log.Debug().Str("event", event.Type).Str("id", event.ID).Msg("Published content event")
}

// auction/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event types published to the fanout exchange.
const (
	TypeAuctionStarted   = "auction_started"
	TypeBidPlaced        = "bid_placed"
	TypeLotOpened        = "lot_opened"
	TypeLotSold          = "lot_sold"
	TypeLotUnsold        = "lot_unsold"
	TypeAuctionPaused    = "auction_paused"
	TypeAuctionResumed   = "auction_resumed"
	TypeAuctionCompleted = "auction_completed"
)

// ExchangeName is the fanout exchange all auction events go to. Consumers bind
// their own queues; the publisher never targets a specific one.
const ExchangeName = "auction_events_exchange"

// Event is the JSON payload published for every auction state change.
type Event struct {
	Type       string         `json:"type"`
	AuctionID  string         `json:"auctionId"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Publisher is the event sink used by the auction service. Publishing is
// best-effort: failures are logged, never surfaced to the bidder.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) {}
func (NopPublisher) Close() error                             { return nil }

// AMQPPublisher publishes auction events to a durable fanout exchange on
// RabbitMQ.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher dials the broker and declares the exchange.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", ExchangeName, err)
	}

	log.Printf("INFO: Connected to RabbitMQ, publishing auction events to %s.", ExchangeName)
	return &AMQPPublisher{conn: conn, channel: channel}, nil
}

// Publish sends one event. Errors are logged and swallowed so a broker outage
// never blocks bidding.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: Failed to marshal auction event %s for %s: %v", event.Type, event.AuctionID, err)
		return
	}

	err = p.channel.PublishWithContext(ctx,
		ExchangeName, // exchange
		"",           // routing key (ignored by fanout)
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		log.Printf("ERROR: Failed to publish auction event %s for %s: %v", event.Type, event.AuctionID, err)
	}
}

// Close tears down the channel and connection.
func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

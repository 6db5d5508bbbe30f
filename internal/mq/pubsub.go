package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/aishanaaz19/assignment-growthx/config"
	"google.golang.org/api/option"
)

const (
	defaultSubscriptionSuffix = "-sub"
	subscriptionAckDeadline   = 30 * time.Second
	maxOutstandingMessages    = 10
)

// PubSubClient maps each channel to a topic and a subscription named
// channel+suffix, creating both on first use. Topic handles are kept for the
// life of the client so their publish goroutines are reused.
type PubSubClient struct {
	client *pubsub.Client
	suffix string

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

// NewPubSubClient constructs a Pub/Sub client from config.
func NewPubSubClient(ctx context.Context, cfg config.PubSubConfig) (*PubSubClient, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}

	var opts []option.ClientOption
	if file := strings.TrimSpace(cfg.CredentialsFile); file != "" {
		opts = append(opts, option.WithCredentialsFile(file))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}

	suffix := cfg.SubscriptionSuffix
	if suffix == "" {
		suffix = defaultSubscriptionSuffix
	}
	return &PubSubClient{
		client: client,
		suffix: suffix,
		topics: map[string]*pubsub.Topic{},
	}, nil
}

// Publish waits for the server to acknowledge the message and returns its id.
func (p *PubSubClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	topic, err := p.topic(ctx, channel)
	if err != nil {
		return "", err
	}

	id, err := topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return id, nil
}

// Subscribe receives from the channel's subscription until ctx is done.
// A failing handler nacks the message so Pub/Sub redelivers it.
func (p *PubSubClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	topic, err := p.topic(ctx, channel)
	if err != nil {
		return err
	}

	sub := p.client.Subscription(channel + p.suffix)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check subscription %s: %w", sub.ID(), err)
	}
	if !exists {
		sub, err = p.client.CreateSubscription(ctx, channel+p.suffix, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: subscriptionAckDeadline,
		})
		if err != nil {
			return fmt.Errorf("create subscription %s: %w", channel+p.suffix, err)
		}
	}
	sub.ReceiveSettings.MaxOutstandingMessages = maxOutstandingMessages

	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		err := handler(ctx, Message{
			ID:         msg.ID,
			Channel:    channel,
			Data:       msg.Data,
			Attributes: msg.Attributes,
		})
		if err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Close flushes pending publishes before closing the client.
func (p *PubSubClient) Close() error {
	p.mu.Lock()
	for _, topic := range p.topics {
		topic.Stop()
	}
	p.topics = map[string]*pubsub.Topic{}
	p.mu.Unlock()
	return p.client.Close()
}

func (p *PubSubClient) topic(ctx context.Context, channel string) (*pubsub.Topic, error) {
	if strings.TrimSpace(channel) == "" {
		return nil, errors.New("pubsub channel is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if topic, ok := p.topics[channel]; ok {
		return topic, nil
	}

	topic := p.client.Topic(channel)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", channel, err)
	}
	if !exists {
		if topic, err = p.client.CreateTopic(ctx, channel); err != nil {
			return nil, fmt.Errorf("create topic %s: %w", channel, err)
		}
	}
	p.topics[channel] = topic
	return topic, nil
}

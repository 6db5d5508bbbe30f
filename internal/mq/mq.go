package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aishanaaz19/assignment-growthx/config"
)

// Message is a broker independent delivery.
type Message struct {
	ID         string
	Channel    string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. A returned error asks the broker to redeliver.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the operations every broker implements.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ publishes and consumes assignment lifecycle events.
type MQ struct {
	backend Backend
}

// New constructs an MQ wrapper for the provided backend.
func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// Open connects to the broker selected by cfg.MQBackend. It returns nil
// without error when messaging is disabled.
func Open(ctx context.Context, cfg config.Config) (*MQ, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.MQBackend {
	case "", config.BackendNone:
		return nil, nil
	case config.MQRabbitMQ:
		backend, err = NewRabbitMQClient(cfg.RabbitMQ)
	case config.MQPubSub:
		backend, err = NewPubSubClient(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQBackend)
	}
	if err != nil {
		return nil, err
	}
	return New(backend), nil
}

func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return m.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe blocks consuming channel until ctx is done or the broker fails.
func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return m.backend.Subscribe(ctx, channel, handler)
}

// SubscribeAll consumes every channel concurrently. The first failure cancels
// the other subscriptions and is returned.
func (m *MQ) SubscribeAll(ctx context.Context, channels []string, handler Handler) error {
	if len(channels) == 0 {
		return errors.New("no channels to subscribe to")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, channel := range channels {
		wg.Add(1)
		go func(channel string) {
			defer wg.Done()
			err := m.backend.Subscribe(ctx, channel, handler)
			if err != nil && !errors.Is(err, context.Canceled) {
				once.Do(func() {
					firstErr = fmt.Errorf("subscribe %s: %w", channel, err)
					cancel()
				})
			}
		}(channel)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

func (m *MQ) Close() error {
	return m.backend.Close()
}

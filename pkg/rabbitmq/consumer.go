package rabbitmq

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one message received on topic.
type Handler func(topic string, message mqtt.Message) error

// IConsumer subscribes and dispatches messages to a handler.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

// Consumer subscribes to one topic filter on a shared client.
type Consumer struct {
	client  mqtt.Client
	handler Handler
	topic   string
}

// NewConsumer creates a Consumer; handler may be nil and injected later.
func NewConsumer(client mqtt.Client, topic string, handler Handler) *Consumer {
	return &Consumer{client: client, topic: topic, handler: handler}
}

func (c *Consumer) SetHandler(handler Handler) {
	c.handler = handler
}

// QosFor returns the subscription QoS for a topic: run requests and results
// are at-least-once, everything else fire-and-forget.
func QosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "simulation/request") || strings.HasPrefix(t, "simulation/result") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes and blocks until ctx is done.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(c.topic, QosFor(c.topic), func(_ mqtt.Client, message mqtt.Message) {
		if c.handler == nil {
			log.Printf("mqtt: no handler set for topic %s", c.topic)
			return
		}
		if err := c.handler(message.Topic(), message); err != nil {
			log.Printf("mqtt: error handling message on %s: %v", message.Topic(), err)
		}
	})
	if token.Wait() && token.Error() != nil {
		log.Printf("mqtt: subscribe to %s failed: %v", c.topic, token.Error())
		return
	}
	log.Printf("mqtt: subscribed to %s", c.topic)

	<-ctx.Done()

	c.client.Unsubscribe(c.topic).Wait()
}

package rabbitmq

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes payloads to the broker.
type IPublisher interface {
	// PublishMessage sends message to the publisher's default topic at QoS 0.
	PublishMessage(message string) error
	// PublishToQos sends message to an explicit topic.
	PublishToQos(topic string, qos byte, retained bool, message string) error
	Close()
}

// Publisher is bound to a shared client and a default topic.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher creates a Publisher on the shared client.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

func (p *Publisher) PublishMessage(message string) error {
	return p.PublishToQos(p.topic, 0, false, message)
}

func (p *Publisher) PublishToQos(topic string, qos byte, retained bool, message string) error {
	if topic == "" {
		return fmt.Errorf("publish: empty topic")
	}
	token := p.client.Publish(topic, qos, retained, message)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	log.Printf("mqtt: published %d bytes to %s (qos=%d)", len(message), topic, qos)
	return nil
}

// Close disconnects the underlying client.
func (p *Publisher) Close() {
	CloseRabbitMQConn(p.client)
}

package kafka

import (
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Consumer wraps a sarama consumer for the payout notification topic
type Consumer struct {
	consumer sarama.Consumer
}

// NewConsumer connects to the broker, retrying while it comes up
func NewConsumer(broker string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true

	var client sarama.Consumer
	var err error

	for i := 1; i <= 10; i++ {
		client, err = sarama.NewConsumer([]string{broker}, config)
		if err == nil {
			log.Println("Kafka consumer initialized")
			return &Consumer{consumer: client}, nil
		}

		log.Printf("Waiting for Kafka consumer... (%d/10) Error: %v", i, err)
		time.Sleep(5 * time.Second)
	}

	return nil, err
}

// Consume subscribes to a topic and dispatches each message to the handler
func (c *Consumer) Consume(topic string, handler func([]byte)) error {
	pc, err := c.consumer.ConsumePartition(topic, 0, sarama.OffsetNewest)
	if err != nil {
		return err
	}

	log.Printf("Listening on topic %s ...", topic)

	go func() {
		for {
			select {
			case msg := <-pc.Messages():
				handler(msg.Value)

			case err := <-pc.Errors():
				log.Printf("Kafka consumer error: %v", err)
			}
		}
	}()

	return nil
}

// Close shuts down the underlying consumer
func (c *Consumer) Close() error {
	return c.consumer.Close()
}

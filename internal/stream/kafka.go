package stream

import (
	"fmt"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

type KafkaStream struct {
	kafkaServers string
}

type StreamConsumer struct {
	GroupId string
	Topic   string
}

func New(kafkaServers string) *KafkaStream {
	return &KafkaStream{
		kafkaServers: kafkaServers,
	}
}

// ProduceMessage publishes message to topic and waits for the broker's
// delivery report, so a nil return means the message was accepted.
func (st *KafkaStream) ProduceMessage(topic, message string) error {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": st.kafkaServers})
	if err != nil {
		return err
	}
	defer producer.Close()

	deliveryChan := make(chan kafka.Event, 1)

	err = producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          []byte(message),
	}, deliveryChan)
	if err != nil {
		log.Printf("Failed to produce message on %s: %v", topic, err)
		return err
	}

	event := <-deliveryChan
	if m, ok := event.(*kafka.Message); ok && m.TopicPartition.Error != nil {
		log.Printf("Delivery failed on %s: %v", topic, m.TopicPartition.Error)
		return fmt.Errorf("delivering message to %s: %w", topic, m.TopicPartition.Error)
	}

	return nil
}

func (st *KafkaStream) CreateConsumer(consumerStruct *StreamConsumer) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": st.kafkaServers,
		"group.id":          consumerStruct.GroupId,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(consumerStruct.Topic, nil); err != nil {
		consumer.Close()
		return nil, err
	}

	return consumer, nil
}

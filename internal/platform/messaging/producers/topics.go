package producers

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// EnsureTopics creates every missing topic through the cluster controller
func EnsureTopics(brokers string, numPartitions, replicationFactor int, logger *slog.Logger, topics ...string) error {
	conn, err := kafka.Dial("tcp", brokers)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to find kafka controller: %w", err)
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("failed to dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		if err := ensureTopic(controllerConn, topic, numPartitions, replicationFactor, logger); err != nil {
			return err
		}
	}
	return nil
}

func ensureTopic(admin TopicAdmin, topic string, numPartitions, replicationFactor int, logger *slog.Logger) error {
	partitions, err := admin.ReadPartitions(topic)
	if err == nil && len(partitions) > 0 {
		logger.Info("Kafka topic already exists", "topic", topic, "partitions", len(partitions))
		return nil
	}
	if err != nil && !errors.Is(err, kafka.UnknownTopicOrPartition) {
		logger.Warn("Could not read topic partitions, attempting to create topic", "topic", topic, "error", err)
	}

	topicConfig := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     max(numPartitions, 1),
		ReplicationFactor: max(replicationFactor, 1),
	}
	if err := admin.CreateTopics(topicConfig); err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}

	logger.Info("Created Kafka topic", "topic", topic, "partitions", topicConfig.NumPartitions)
	return nil
}

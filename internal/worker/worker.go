package worker

import (
	"blog_api/internal/observability"
	"blog_api/internal/post"
	"blog_api/internal/queue"
	"context"
	"database/sql"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// StartConsumer drains the post event queue and records each event in the
// audit table. Malformed payloads are dropped; transient write failures are
// requeued.
func StartConsumer(conn *amqp.Connection, db *sql.DB, repo post.PostRepositoryInterface, id int) {
	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("Consumer %d failed to open channel: %v", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		logrus.Fatalf("Consumer %d failed to set QoS: %v", id, err)
	}

	msgs, err := ch.Consume(
		queue.PostEventQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.Fatalf("Consumer %d failed to start consuming messages: %v", id, err)
	}

	logrus.Infof("Consumer %d started", id)

	for msg := range msgs {
		observability.GlobalMetrics.QueueMessagesConsumed.WithLabelValues(queue.PostEventQueue).Inc()

		var event queue.PostEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			logrus.Error("invalid post event payload")
			msg.Nack(false, false)
			continue
		}

		logrus.WithFields(logrus.Fields{
			"consumer": id,
			"post_id":  event.PostID,
			"action":   event.Action,
		}).Info("Recording post event")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := repo.RecordEvent(ctx, db, event.PostID, event.UserID, event.Action)
		cancel()

		if err != nil {
			logrus.WithError(err).Error("Failed to record post event, requeuing")
			msg.Nack(false, true)
			continue
		}

		msg.Ack(false)
	}
}

package main

import (
	"blog_api/internal/config"
	"blog_api/internal/db"
	"blog_api/internal/observability"
	"blog_api/internal/post"
	"blog_api/internal/queue"
	"blog_api/internal/worker"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const consumerCount = 3

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()

	database := db.Init(&cfg.DB)
	defer func() {
		if err := database.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close database connection")
		}
	}()

	conn := queue.SetupRabbitMQ(&cfg.RabbitMQ)
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close RabbitMQ connection")
		}
	}()

	observability.InitMetrics()

	repo := post.NewPostRepository()

	setupChannel, err := queue.CreateChannel(conn)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create RabbitMQ channel")
	}

	if _, err := queue.DeclareQueue(setupChannel, queue.PostEventQueue); err != nil {
		logrus.WithError(err).Fatal("Failed to declare queue")
	}

	if err := setupChannel.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close setup channel")
	}

	for i := 1; i <= consumerCount; i++ {
		go worker.StartConsumer(conn, database, repo, i)
	}

	// Metrics endpoint doubles as the liveness probe.
	http.Handle("/metrics", promhttp.Handler())
	logrus.Info("Worker metrics exposed on :9090/metrics")
	if err := http.ListenAndServe(":9090", nil); err != nil {
		logrus.WithError(err).Fatal("Metrics server failed")
	}
}

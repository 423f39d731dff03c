package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/twmb/franz-go/pkg/kgo"

	"car-rental-platform/internal/config"
	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/observability"
)

// The recorder mirrors completed payments into ClickHouse, where revenue
// reporting queries run without touching the transactional database.
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg.App.Env)
	logger.Info("analytics recorder starting", "env", cfg.App.Env)

	chConn, err := clickhouse.Open(&clickhouse.Options{Addr: []string{cfg.ClickHouse.Addr}})
	if err != nil {
		logger.Error("failed to connect to ClickHouse", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := chConn.Close(); err != nil {
			logger.Error("Failed to close ClickHouse connection", "error", err)
		}
	}()

	kafkaBrokers := strings.Split(cfg.Kafka.BootstrapServers, ",")

	consumerClient, err := kgo.NewClient(
		kgo.SeedBrokers(kafkaBrokers...),
		kgo.ConsumerGroup("rental-analytics-group"),
		kgo.ConsumeTopics(cfg.Kafka.PaymentsTopic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		logger.Error("failed to create Kafka consumer", "error", err)
		os.Exit(1)
	}
	defer consumerClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("analytics recorder is running", "topic", cfg.Kafka.PaymentsTopic)

	run := true
	for run {
		select {
		case <-ctx.Done():
			run = false
		default:
			fetches := consumerClient.PollFetches(ctx)
			if fetches.IsClientClosed() || ctx.Err() != nil {
				break
			}

			fetches.EachError(func(t string, p int32, err error) {
				logger.Error("failed to read from kafka", "topic", t, "partition", p, "error", err)
			})
			commit := true
			fetches.EachRecord(func(record *kgo.Record) {
				var ev domain.PaymentCompletedEvent
				if err := json.Unmarshal(record.Value, &ev); err != nil {
					logger.Error("malformed payment event, skipping", "error", err)
					return
				}

				err := chConn.Exec(ctx, `
				INSERT INTO default.rental_revenue (payment_id, reservation_id, amount, currency, completed_at, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
					ev.PaymentID,
					ev.ReservationID,
					ev.Amount,
					ev.Currency,
					ev.CompletedAt,
					time.Now(),
				)
				if err != nil {
					// Hold the batch back so the event is redelivered.
					logger.Error("Failed to insert into ClickHouse", "error", err, "payment_id", ev.PaymentID)
					commit = false
					return
				}

				logger.Info("revenue recorded", "payment_id", ev.PaymentID, "reservation_id", ev.ReservationID, "amount", ev.Amount)
			})

			if !commit {
				logger.Warn("batch had failures, offsets left uncommitted for retry")
			} else if err := consumerClient.CommitUncommittedOffsets(ctx); err != nil {
				logger.Error("error committing offsets", "error", err)
			}
		}
	}

	logger.Info("analytics recorder shutting down...")
}

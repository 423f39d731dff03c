package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"car-rental-platform/internal/adapters/storage/postgres"
	"car-rental-platform/internal/config"
	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/observability"
)

// confirmer is the slice of the reservation repository the worker needs.
type confirmer interface {
	ConfirmPayment(ctx context.Context, reservationID uuid.UUID, now time.Time) (bool, error)
}

// The worker consumes payments.completed and flips the matching reservation
// from WAITING_FOR_PAYMENT to CONFIRMED. The conditional update makes a
// replayed event a no-op, so at-least-once delivery is safe here.
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg.App.Env)
	logger.Info("confirmation worker starting", "env", cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	reservations := postgres.NewReservationRepository(pool)

	kafkaBrokers := strings.Split(cfg.Kafka.BootstrapServers, ",")

	// Producer used only for the dead-letter queue.
	dlqProducer, err := kgo.NewClient(
		kgo.SeedBrokers(kafkaBrokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		logger.Error("failed to create Kafka producer for DLQ", "error", err)
		os.Exit(1)
	}
	defer dlqProducer.Close()

	// Offsets are committed manually, after a batch is fully processed.
	consumerClient, err := kgo.NewClient(
		kgo.SeedBrokers(kafkaBrokers...),
		kgo.ConsumerGroup("reservation-confirmation-group"),
		kgo.ConsumeTopics(cfg.Kafka.PaymentsTopic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		logger.Error("failed to create Kafka consumer", "error", err)
		os.Exit(1)
	}
	defer consumerClient.Close()

	logger.Info("confirmation worker is running", "topic", cfg.Kafka.PaymentsTopic)

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

			dlq := func(record *kgo.Record, errorType, errorString string) {
				sendToDLQ(dlqProducer, cfg.Kafka.DLQTopic, record, errorType, errorString)
			}
			commit := true
			fetches.EachRecord(func(record *kgo.Record) {
				if !processRecord(ctx, record, reservations, dlq, logger) {
					commit = false
				}
			})

			// A failed record holds the whole batch back; the conditional
			// update makes reprocessing the confirmed ones harmless.
			if !commit {
				logger.Warn("batch had failures, offsets left uncommitted for retry")
			} else if err := consumerClient.CommitUncommittedOffsets(ctx); err != nil {
				logger.Error("error committing offsets", "error", err)
			}
		}
	}

	logger.Info("confirmation worker shutting down...")
}

// processRecord handles a single payment event and reports whether its offset
// may be committed. Malformed payloads go to the DLQ and never block the
// commit; a transient confirmation failure returns false so the event is
// redelivered.
func processRecord(ctx context.Context, record *kgo.Record, reservations confirmer, dlq func(*kgo.Record, string, string), logger *slog.Logger) bool {
	var ev domain.PaymentCompletedEvent
	if err := json.Unmarshal(record.Value, &ev); err != nil {
		logger.Error("malformed payment event, sending to DLQ", "error", err)
		dlq(record, "unmarshal_error", err.Error())
		return true
	}

	confirmed, err := reservations.ConfirmPayment(ctx, ev.ReservationID, time.Now())
	if err != nil {
		logger.Error("failed to confirm reservation", "reservation_id", ev.ReservationID, "error", err)
		return false
	}
	if !confirmed {
		logger.Warn("reservation not in WAITING_FOR_PAYMENT, event ignored",
			"reservation_id", ev.ReservationID,
			"payment_id", ev.PaymentID,
		)
		return true
	}

	logger.Info("reservation confirmed",
		"reservation_id", ev.ReservationID,
		"payment_id", ev.PaymentID,
		"amount", ev.Amount,
	)
	return true
}

// sendToDLQ forwards the original malformed message to the dead-letter queue
// with failure metadata in the headers.
func sendToDLQ(p *kgo.Client, dlqTopic string, originalRecord *kgo.Record, errorType, errorString string) {
	dlqRecord := &kgo.Record{
		Topic: dlqTopic,
		Value: originalRecord.Value,
		Key:   originalRecord.Key,
		Headers: []kgo.RecordHeader{
			{Key: "error_type", Value: []byte(errorType)},
			{Key: "error_string", Value: []byte(errorString)},
			{Key: "original_topic", Value: []byte(originalRecord.Topic)},
		},
	}
	p.Produce(context.Background(), dlqRecord, func(r *kgo.Record, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: failed to deliver message to DLQ: %v\n", err)
		}
	})
}

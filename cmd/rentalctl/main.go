package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"
)

// rentalctl is the operator's console: revenue reports out of ClickHouse and
// inspection/replay of the payments dead-letter queue.
func main() {
	var chAddr string
	var kafkaBrokers string
	var dlqTopic string

	var rootCmd = &cobra.Command{Use: "rentalctl"}
	rootCmd.PersistentFlags().StringVar(&chAddr, "clickhouse", "localhost:9000", "ClickHouse address")
	rootCmd.PersistentFlags().StringVar(&kafkaBrokers, "brokers", "localhost:9092", "Kafka broker addresses")
	rootCmd.PersistentFlags().StringVar(&dlqTopic, "dlq-topic", "payments.completed.dlq", "DLQ topic name")

	var revenueCmd = &cobra.Command{
		Use:   "revenue",
		Short: "Show the most recent recorded payments",
		Run: func(cmd *cobra.Command, args []string) {
			limit, _ := cmd.Flags().GetInt("limit")
			conn := connect(chAddr)
			defer conn.Close()

			rows, err := conn.Query(context.Background(),
				"SELECT payment_id, reservation_id, amount, currency, completed_at FROM rental_revenue ORDER BY completed_at DESC LIMIT ?", limit)
			if err != nil {
				log.Fatal(err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "PAYMENT ID\tRESERVATION ID\tAMOUNT\tCURRENCY\tCOMPLETED AT")
			for rows.Next() {
				var paymentID, reservationID, currency string
				var amount float64
				var completedAt time.Time
				if err := rows.Scan(&paymentID, &reservationID, &amount, &currency, &completedAt); err != nil {
					log.Fatal(err)
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", paymentID, reservationID, amount, currency, completedAt.Format(time.RFC3339))
			}
			w.Flush()
		},
	}
	revenueCmd.Flags().Int("limit", 20, "Number of payments to show")

	var dailyCmd = &cobra.Command{
		Use:   "daily",
		Short: "Show revenue aggregated per day",
		Run: func(cmd *cobra.Command, args []string) {
			days, _ := cmd.Flags().GetInt("days")
			conn := connect(chAddr)
			defer conn.Close()

			rows, err := conn.Query(context.Background(),
				"SELECT toDate(completed_at) AS day, currency, sum(amount), count() FROM rental_revenue WHERE completed_at >= now() - INTERVAL ? DAY GROUP BY day, currency ORDER BY day DESC", days)
			if err != nil {
				log.Fatal(err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "DAY\tCURRENCY\tTOTAL\tPAYMENTS")
			for rows.Next() {
				var day time.Time
				var currency string
				var total float64
				var count uint64
				if err := rows.Scan(&day, &currency, &total, &count); err != nil {
					log.Fatal(err)
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", day.Format("2006-01-02"), currency, total, count)
			}
			w.Flush()
		},
	}
	dailyCmd.Flags().Int("days", 30, "Reporting window in days")

	var dlqViewCmd = &cobra.Command{
		Use:   "dlq-view",
		Short: "View messages stuck in the DLQ",
		Run: func(cmd *cobra.Command, _ []string) {
			limit, _ := cmd.Flags().GetInt("limit")

			brokers := strings.Split(kafkaBrokers, ",")
			client, err := kgo.NewClient(
				kgo.SeedBrokers(brokers...),
				kgo.ConsumerGroup("rentalctl-dlq-viewer"),
				kgo.ConsumeTopics(dlqTopic),
				kgo.FetchMaxWait(5*time.Second),
				kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
			)
			if err != nil {
				log.Fatal(err)
			}
			defer client.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OFFSET\tKEY\tERROR_TYPE\tERROR_STRING")
			fmt.Fprintln(w, "------\t---\t----------\t------------")

			msgCount := 0
			ctx := context.Background()

			for msgCount < limit {
				fetches := client.PollFetches(ctx)
				if fetches.IsClientClosed() {
					break
				}
				if len(fetches.Records()) == 0 {
					break
				}

				fetches.EachRecord(func(record *kgo.Record) {
					if msgCount >= limit {
						return
					}
					errorType, errorString := getErrorHeaders(record.Headers)
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", record.Offset, string(record.Key), errorType, errorString)
					msgCount++
				})
			}
			w.Flush()
		},
	}
	dlqViewCmd.Flags().Int("limit", 10, "Number of messages to show")

	var dlqRetryCmd = &cobra.Command{
		Use:   "dlq-retry [partition:offset]",
		Short: "Resend one DLQ message to its original topic",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			targetTopic, _ := cmd.Flags().GetString("target-topic")
			partition, offset, err := parsePartitionOffset(args[0])
			if err != nil {
				log.Fatal(err)
			}

			brokers := strings.Split(kafkaBrokers, ",")
			producer, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
			if err != nil {
				log.Fatal(err)
			}
			defer producer.Close()

			consumer, err := kgo.NewClient(
				kgo.SeedBrokers(brokers...),
				kgo.ConsumePartitions(map[string]map[int32]kgo.Offset{
					dlqTopic: {int32(partition): kgo.NewOffset().At(offset)},
				}),
			)
			if err != nil {
				log.Fatal(err)
			}
			defer consumer.Close()

			fetches := consumer.PollFetches(context.Background())
			if err := fetches.Err(); err != nil {
				log.Fatal(err)
			}
			records := fetches.Records()
			if len(records) == 0 {
				log.Fatal("no message found at the given offset")
			}
			record := records[0]

			retryRecord := &kgo.Record{
				Topic: targetTopic,
				Value: record.Value,
				Key:   record.Key,
			}
			if err := producer.ProduceSync(context.Background(), retryRecord).FirstErr(); err != nil {
				log.Fatal(err)
			}

			fmt.Printf("message %d:%d resent to %s\n", partition, offset, targetTopic)
		},
	}
	dlqRetryCmd.Flags().String("target-topic", "payments.completed", "Topic to resend the message to")

	rootCmd.AddCommand(revenueCmd, dailyCmd, dlqViewCmd, dlqRetryCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func connect(addr string) clickhouse.Conn {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
	})
	if err != nil {
		log.Fatal(err)
	}
	return conn
}

// getErrorHeaders extracts error_type and error_string from Kafka headers.
func getErrorHeaders(headers []kgo.RecordHeader) (string, string) {
	var errorType, errorString = "N/A", "N/A"
	for _, h := range headers {
		if h.Key == "error_type" {
			errorType = string(h.Value)
		}
		if h.Key == "error_string" {
			errorString = string(h.Value)
		}
	}
	return errorType, errorString
}

// parsePartitionOffset parses a "partition:offset" argument.
func parsePartitionOffset(arg string) (int, int64, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected partition:offset, e.g. 0:123")
	}
	partition, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad partition number: %w", err)
	}
	offset, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad offset: %w", err)
	}
	return partition, offset, nil
}

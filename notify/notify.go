// Package notify delivers the "someone filled in the contact form" signal.
// The log notifier stands in for a real outbound email integration; the
// Kafka notifier publishes the same summary as an event for downstream
// consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"sipin/cafesite/models"
)

type Notifier interface {
	Notify(ctx context.Context, sub *models.ContactSubmission) error
}

// Summary renders the plain-text body a real mail integration would send.
func Summary(sub *models.ContactSubmission) string {
	return fmt.Sprintf(`New Contact Form Submission from Sip-In Cafe Website

Name: %s %s
Email: %s
Subject: %s

Message:
%s

---
This message was sent from the Sip-In Cafe website contact form.
Submitted at: %s`,
		sub.FirstName, sub.LastName, sub.Email, sub.Subject, sub.Message, sub.SubmittedAt)
}

// LogNotifier writes the summary to the process log. Swap in a real email
// sender here for production; the SMTP_* settings in config are reserved for
// that.
type LogNotifier struct {
	To  string
	Log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{To: "info@sipincafe.co.uk", Log: log}
}

func (n *LogNotifier) Notify(_ context.Context, sub *models.ContactSubmission) error {
	n.Log.Info("contact notification",
		"to", n.To,
		"subject", "New Contact Form Submission - "+sub.Subject,
		"body", Summary(sub),
	)
	return nil
}

// KafkaNotifier publishes each submission summary to a topic.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}),
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, sub *models.ContactSubmission) error {
	event := struct {
		*models.ContactSubmission
		Summary string `json:"summary"`
	}{sub, Summary(sub)}

	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(sub.Email),
		Value: b,
		Time:  time.Now(),
	})
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// Multi fans a notification out to several notifiers; the first failure is
// returned and counts as a failed notification.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, sub *models.ContactSubmission) error {
	for _, n := range m {
		if err := n.Notify(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// Package notifications consumes booking events, announces confirmations and
// refunds, and archives a receipt per event.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/inbox"
	"staybook/internal/infra/storage/s3"
)

const (
	typeBookingConfirmed = "booking.confirmed.v1"
	typeBookingCancelled = "booking.cancelled.v1"
)

// Envelope is the CloudEvents structure written by the outbox worker.
type Envelope struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Source  string          `json:"source"`
	Subject string          `json:"subject"`
	Time    time.Time       `json:"time"`
	Data    json.RawMessage `json:"data"`
}

type moneyPayload struct {
	Amount   int64
	Currency string
}

type bookingPayload struct {
	BookingID     string
	PropertyID    string
	GuestID       string
	GuestCount    int
	TotalPrice    moneyPayload
	DaysInAdvance int
	Rule          string
	Refund        moneyPayload
}

type Handler struct {
	Inbox    inbox.Deduper
	Receipts s3.ReceiptStore
	Logger   *slog.Logger
}

func (h *Handler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	logger := h.logger()
	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil || env.ID == "" {
		logger.Warn("skipping malformed event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}
	if env.Type != typeBookingConfirmed && env.Type != typeBookingCancelled {
		return nil
	}
	var data bookingPayload
	if err := json.Unmarshal(env.Data, &data); err != nil || data.BookingID == "" {
		logger.Warn("skipping event with malformed data", "event_id", env.ID, "type", env.Type, "error", err)
		return nil
	}

	if h.Inbox != nil {
		seen, err := h.Inbox.Seen(ctx, env.ID)
		if err != nil {
			return err
		}
		if seen {
			logger.Debug("duplicate event ignored", "event_id", env.ID)
			return nil
		}
	}

	if err := h.archive(ctx, env, data, msg.Value); err != nil {
		if h.Inbox != nil {
			_ = h.Inbox.Forget(ctx, env.ID)
		}
		return err
	}

	switch env.Type {
	case typeBookingConfirmed:
		logger.Info("booking confirmation",
			"booking_id", data.BookingID,
			"property_id", data.PropertyID,
			"guest_id", data.GuestID,
			"guests", data.GuestCount,
			"total", data.TotalPrice.Amount,
			"currency", data.TotalPrice.Currency,
		)
	case typeBookingCancelled:
		logger.Info("refund notice",
			"booking_id", data.BookingID,
			"guest_id", data.GuestID,
			"rule", data.Rule,
			"days_in_advance", data.DaysInAdvance,
			"refund", data.Refund.Amount,
			"currency", data.Refund.Currency,
		)
	}
	return nil
}

func (h *Handler) archive(ctx context.Context, env Envelope, data bookingPayload, raw []byte) error {
	if h.Receipts == nil {
		return nil
	}
	kind := strings.TrimSuffix(env.Type, ".v1")
	key, err := h.Receipts.PutReceipt(ctx, data.BookingID, kind, raw)
	if err != nil {
		return err
	}
	h.logger().Debug("receipt stored", "booking_id", data.BookingID, "key", key)
	return nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ kafka.MessageHandler = (*Handler)(nil)

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartDrawAuditConsumer connects to RabbitMQ, declares the draw audit
// queue and appends every event to the file at logPath, one line per draw.
// It reconnects with exponential backoff until ctx is cancelled. Messages
// that cannot be handled are rejected without requeue so a bad payload
// cannot spin the loop.
func StartDrawAuditConsumer(ctx context.Context, url, logPath string) error {
	log := zap.L().Named("draw-audit")
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logPath)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logPath string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		zap.L().Warn("draw-audit: set QoS failed", zap.Error(err))
	}
	if err := declareDrawQueue(ch); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(DrawRecordedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := AppendDrawAudit(logPath, d.Body); err != nil {
				zap.L().Warn("draw-audit: handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// AppendDrawAudit decodes a DrawRecordedEvent and appends its audit line to
// the file at logPath, creating parent directories as needed.
func AppendDrawAudit(logPath string, body []byte) error {
	var ev DrawRecordedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatDrawAudit(ev)); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// FormatDrawAudit renders one audit line for a draw event.
func FormatDrawAudit(ev DrawRecordedEvent) string {
	return fmt.Sprintf("[%s] Draw recorded | draw_id=%d | raffle_id=%d | raffle=%q | winner=%d | buyer=%q | phone=%q | only_paid=%t | eligible=%d\n",
		ev.DrawnAt, ev.DrawID, ev.RaffleID, ev.RaffleTitle, ev.TicketNumber, ev.BuyerName, ev.BuyerPhone, ev.OnlyPaid, ev.Eligible)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Package events is the in-process event mechanism, implemented as a
// transactional outbox: producers write intent rows inside their own
// database transaction and a polling dispatcher delivers them to
// subscribed handlers after commit. Delivery is at-least-once; handlers
// run outside the producing transaction and must open their own.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/RobasAhmedShah/hmr-backend/internal/logger"
	"github.com/RobasAhmedShah/hmr-backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	InvestmentCompleted   = "investment.completed"
	RewardDistributed     = "reward.distributed"
	UserCreated           = "user.created"
	KycVerified           = "kyc.verified"
	WalletCredited        = "wallet.credited"
	PaymentMethodCreated  = "payment_method.created"
	PaymentMethodVerified = "payment_method.verified"

	// Wildcard subscribes a handler to every event.
	Wildcard = "*"
)

// Envelope is what handlers receive: the stored event plus its decoded
// identity. Payload is the raw JSON written by the producer.
type Envelope struct {
	EventID    string
	Name       string
	Payload    json.RawMessage
	OccurredAt time.Time
}

// Decode unmarshals the payload into a typed event struct.
func (e Envelope) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

type Handler func(ctx context.Context, e Envelope) error

type Bus struct {
	db *gorm.DB

	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus(db *gorm.DB) *Bus {
	return &Bus{
		db:       db,
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish records the event in the outbox. Call it with the producing
// transaction so the intent commits or rolls back atomically with the
// state change it describes.
func (b *Bus) Publish(tx *gorm.DB, name string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", name, err)
	}
	row := models.OutboxEvent{
		EventID: uuid.NewString(),
		Name:    name,
		Payload: body,
		Status:  "pending",
	}
	return tx.Create(&row).Error
}

// Run polls the outbox until ctx is cancelled.
func (b *Bus) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.DispatchPending(ctx); err != nil {
				logger.Log.Error("outbox poll failed", zap.Error(err))
			}
		}
	}
}

// DispatchPending delivers one batch of pending events in insertion
// order. Delivery is at-least-once: a crash between handler execution
// and the status update replays the event on restart. Handler errors
// are logged and recorded on the row but never replayed automatically;
// a committed settlement can outlive a failed listener.
func (b *Bus) DispatchPending(ctx context.Context) error {
	var batch []models.OutboxEvent
	err := b.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("id").
		Limit(50).
		Find(&batch).Error
	if err != nil {
		return err
	}

	for _, row := range batch {
		env := Envelope{
			EventID:    row.EventID,
			Name:       row.Name,
			Payload:    row.Payload,
			OccurredAt: row.CreatedAt,
		}
		now := time.Now()
		updates := map[string]any{
			"status":        "dispatched",
			"attempts":      row.Attempts + 1,
			"dispatched_at": &now,
		}
		if dispatchErr := b.deliver(ctx, env); dispatchErr != nil {
			updates["last_error"] = dispatchErr.Error()
		}
		if err := b.db.Model(&models.OutboxEvent{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

// deliver fans the envelope out to named and wildcard subscribers. All
// handlers run even if an earlier one fails; the first error is kept
// for the outbox record.
func (b *Bus) deliver(ctx context.Context, env Envelope) error {
	b.mu.RLock()
	hs := append([]Handler{}, b.handlers[env.Name]...)
	hs = append(hs, b.handlers[Wildcard]...)
	b.mu.RUnlock()

	var firstErr error
	for _, h := range hs {
		if err := b.safeCall(ctx, h, env); err != nil {
			logger.Log.Error("event handler failed",
				zap.String("event", env.Name),
				zap.String("event_id", env.EventID),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (b *Bus) safeCall(ctx context.Context, h Handler, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, env)
}

// Package events routes storefront audit events through a synchronous
// in-process bus. Subscribers run inside the publishing request; there
// are no background workers.
package events

import (
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/gamestore/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	TopicOrderCreated   = "order.created"
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
	TopicUserLogin      = "user.login"
	TopicUserRegister   = "user.register"
)

var bus = EventBus.New()

// Publish emits an audit event for the given actor.
func Publish(topic, actor, detail string) {
	bus.Publish(topic, actor, detail)
}

// SubscribeAudit persists every known topic as an AuditLog row.
func SubscribeAudit(db *gorm.DB) {
	topics := []string{
		TopicOrderCreated,
		TopicProductCreated,
		TopicProductUpdated,
		TopicProductDeleted,
		TopicUserLogin,
		TopicUserRegister,
	}
	for _, topic := range topics {
		topic := topic
		err := bus.Subscribe(topic, func(actor, detail string) {
			if actor == "" {
				actor = "anonymous"
			}
			row := domain.AuditLog{
				Actor:     actor,
				Action:    topic,
				Detail:    detail,
				CreatedAt: time.Now(),
			}
			if err := db.Create(&row).Error; err != nil {
				zap.L().Warn("failed to write audit log", zap.String("action", topic), zap.Error(err))
			}
		})
		if err != nil {
			zap.L().Warn("failed to subscribe audit topic", zap.String("topic", topic), zap.Error(err))
		}
	}
}

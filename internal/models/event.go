package models

import "time"

// ProductEventType names a catalog change.
type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent is published after a successful catalog mutation.
type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	ProductID  uint             `json:"productId"`
	ArticleNo  string           `json:"articleNo"`
	OccurredAt time.Time        `json:"occurredAt"`
	Product    *Product         `json:"product,omitempty"`
}

// NewProductEvent builds an event for p. The product snapshot is omitted for deletions.
func NewProductEvent(t ProductEventType, p Product) ProductEvent {
	ev := ProductEvent{
		Type:       t,
		ProductID:  p.ID,
		ArticleNo:  p.ArticleNo,
		OccurredAt: time.Now().UTC(),
	}
	if t != ProductDeleted {
		ev.Product = &p
	}
	return ev
}

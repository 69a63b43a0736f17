// Package event carries publish notifications for imported entities.
//
// Writers hand events to a Sink. The sink decides when they reach the
// Publisher (the transport): ImmediateSink delivers on Add, DeferredSink
// queues until Flush. Either way delivery order is Add order.
package event

import (
	"context"

	"github.com/google/uuid"
)

// Event names understood by downstream subscribers.
const (
	MerchantPublish      = "Merchant.merchant.publish"
	URLPublish           = "Url.url.publish"
	MerchantStorePublish = "MerchantStore.merchant_store.publish"
)

// ColMerchantReference is the additional-value key carrying the merchant
// reference on merchant publish events.
const ColMerchantReference = "spy_merchant.merchant_reference"

// Event notifies subscribers that an entity changed.
type Event struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	EntityID         int64             `json:"entityId"`
	AdditionalValues map[string]string `json:"additionalValues,omitempty"`
}

// New builds an event with a fresh id.
func New(name string, entityID int64, additional map[string]string) Event {
	return Event{
		ID:               uuid.New(),
		Name:             name,
		EntityID:         entityID,
		AdditionalValues: additional,
	}
}

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

package event

import (
	"context"
	"log/slog"

	"github.com/michaelpizzardello/outsider-site-sub000/pkg/kafka"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/logger"
)

// Topics for storefront domain events.
const (
	TopicLeadCaptured         = "gallery.lead.captured"
	TopicEnquirySubmitted     = "gallery.enquiry.submitted"
	TopicNewsletterSubscribed = "gallery.newsletter.subscribed"
)

// Event type names carried in the envelope.
const (
	TypeLeadCaptured         = "lead.captured"
	TypeEnquirySubmitted     = "enquiry.submitted"
	TypeNewsletterSubscribed = "newsletter.subscribed"
)

const source = "storefront-api"

// LeadCapturedData is the payload for contact-form and enquiry events.
type LeadCapturedData struct {
	ContactID     string `json:"contact_id"`
	Email         string `json:"email"`
	Kind          string `json:"kind"`
	ArtworkHandle string `json:"artwork_handle,omitempty"`
	Partial       bool   `json:"partial"`
}

// NewsletterSubscribedData is the payload for subscribe events.
type NewsletterSubscribedData struct {
	ContactID string `json:"contact_id"`
	Email     string `json:"email"`
}

// Producer publishes envelope events to Kafka.
type Producer interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Publisher emits storefront domain events. Publishing is best effort:
// failures are logged and never surfaced to the request.
type Publisher struct {
	producer Producer
	logger   *slog.Logger
}

// NewPublisher creates an event publisher. A nil producer disables
// publishing entirely.
func NewPublisher(producer Producer, log *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: log}
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, aggregateID string, data any) {
	if p == nil || p.producer == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, aggregateID, "lead", source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.WarnContext(ctx, "event publish failed",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

// LeadCaptured reports a successful contact-form capture.
func (p *Publisher) LeadCaptured(ctx context.Context, data LeadCapturedData) {
	data.Kind = "contact"
	p.publish(ctx, TopicLeadCaptured, TypeLeadCaptured, data.ContactID, data)
}

// EnquirySubmitted reports a successful artwork enquiry.
func (p *Publisher) EnquirySubmitted(ctx context.Context, data LeadCapturedData) {
	data.Kind = "enquiry"
	p.publish(ctx, TopicEnquirySubmitted, TypeEnquirySubmitted, data.ContactID, data)
}

// NewsletterSubscribed reports a successful newsletter signup.
func (p *Publisher) NewsletterSubscribed(ctx context.Context, data NewsletterSubscribedData) {
	p.publish(ctx, TopicNewsletterSubscribed, TypeNewsletterSubscribed, data.ContactID, data)
}

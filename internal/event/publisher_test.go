package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/michaelpizzardello/outsider-site-sub000/pkg/kafka"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, topic string, event *kafka.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestEnquirySubmittedPublishesEnvelope(t *testing.T) {
	producer := new(mockProducer)
	var captured *kafka.Event
	producer.On("Publish", mock.Anything, TopicEnquirySubmitted, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(*kafka.Event)
		}).
		Return(nil)

	pub := NewPublisher(producer, testLogger())
	pub.EnquirySubmitted(context.Background(), LeadCapturedData{
		ContactID:     "contact-123",
		Email:         "jo@example.com",
		ArtworkHandle: "dusk-study",
	})

	producer.AssertExpectations(t)
	require.NotNil(t, captured)
	assert.Equal(t, TypeEnquirySubmitted, captured.EventType)
	assert.Equal(t, "contact-123", captured.AggregateID)

	var data LeadCapturedData
	require.NoError(t, captured.UnmarshalData(&data))
	assert.Equal(t, "enquiry", data.Kind)
	assert.Equal(t, "dusk-study", data.ArtworkHandle)
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	producer := new(mockProducer)
	producer.On("Publish", mock.Anything, TopicNewsletterSubscribed, mock.Anything).
		Return(errors.New("brokers unreachable"))

	pub := NewPublisher(producer, testLogger())

	// Must not panic or propagate.
	pub.NewsletterSubscribed(context.Background(), NewsletterSubscribedData{
		ContactID: "contact-9",
		Email:     "jo@example.com",
	})
	producer.AssertExpectations(t)
}

func TestNilProducerIsNoop(t *testing.T) {
	pub := NewPublisher(nil, testLogger())
	pub.LeadCaptured(context.Background(), LeadCapturedData{ContactID: "c1"})
}

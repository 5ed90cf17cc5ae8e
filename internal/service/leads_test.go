package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/crm"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/event"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/mailer"
	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
)

type mockCRM struct {
	mock.Mock
}

func (m *mockCRM) UpsertContact(ctx context.Context, contact crm.Contact) (string, error) {
	args := m.Called(ctx, contact)
	return args.String(0), args.Error(1)
}

func (m *mockCRM) CreateNote(ctx context.Context, contactID, body string) error {
	args := m.Called(ctx, contactID, body)
	return args.Error(0)
}

type mockMailing struct {
	mock.Mock
}

func (m *mockMailing) Subscribe(ctx context.Context, email, firstName, lastName string) error {
	args := m.Called(ctx, email, firstName, lastName)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockLeadPublisher struct {
	mock.Mock
}

func (m *mockLeadPublisher) LeadCaptured(ctx context.Context, data event.LeadCapturedData) {
	m.Called(ctx, data)
}

func (m *mockLeadPublisher) EnquirySubmitted(ctx context.Context, data event.LeadCapturedData) {
	m.Called(ctx, data)
}

func (m *mockLeadPublisher) NewsletterSubscribed(ctx context.Context, data event.NewsletterSubscribedData) {
	m.Called(ctx, data)
}

func leadConfig() LeadConfig {
	return LeadConfig{
		NotifyFrom: "gallery@example.com",
		NotifyTo:   "sales@example.com",
	}
}

func contactLead() domain.Lead {
	return domain.Lead{
		Kind:    domain.LeadKindContact,
		Name:    "Jo Reed",
		Email:   "jo@example.com",
		Message: "Interested in the current show.",
		OptIn:   true,
	}
}

func TestCaptureAllStepsSucceed(t *testing.T) {
	crmClient := new(mockCRM)
	mailing := new(mockMailing)
	mail := new(mockMailer)
	publisher := new(mockLeadPublisher)

	crmClient.On("UpsertContact", mock.Anything, mock.MatchedBy(func(c crm.Contact) bool {
		return c.Email == "jo@example.com" && c.FirstName == "Jo" && c.LastName == "Reed" && c.Source == "website-contact"
	})).Return("contact-1", nil)
	crmClient.On("CreateNote", mock.Anything, "contact-1", mock.Anything).Return(nil)
	mailing.On("Subscribe", mock.Anything, "jo@example.com", "Jo", "Reed").Return(nil)
	mail.On("Send", mock.Anything, mock.MatchedBy(func(m mailer.Message) bool {
		return m.Subject == "New contact form submission" && m.ReplyTo == "jo@example.com"
	})).Return(nil)
	publisher.On("LeadCaptured", mock.Anything, mock.Anything).Return()

	svc := NewLeadService(crmClient, mailing, mail, publisher, leadConfig(), testLogger())
	report, err := svc.Capture(context.Background(), contactLead())
	require.NoError(t, err)

	assert.Equal(t, "contact-1", report.ContactID)
	assert.False(t, report.Partial())
	crmClient.AssertExpectations(t)
	mailing.AssertExpectations(t)
	mail.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCaptureCRMFailureIsFatal(t *testing.T) {
	crmClient := new(mockCRM)
	crmClient.On("UpsertContact", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	svc := NewLeadService(crmClient, nil, nil, nil, leadConfig(), testLogger())
	_, err := svc.Capture(context.Background(), contactLead())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, 502, apperrors.HTTPStatus(err))
}

func TestCaptureMailingListFailureIsPartial(t *testing.T) {
	crmClient := new(mockCRM)
	mailing := new(mockMailing)
	mail := new(mockMailer)

	crmClient.On("UpsertContact", mock.Anything, mock.Anything).Return("contact-1", nil)
	crmClient.On("CreateNote", mock.Anything, "contact-1", mock.Anything).Return(nil)
	mailing.On("Subscribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("list down"))
	mail.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := NewLeadService(crmClient, mailing, mail, nil, leadConfig(), testLogger())
	report, err := svc.Capture(context.Background(), contactLead())
	require.NoError(t, err)

	assert.True(t, report.Partial())
	assert.Equal(t, []domain.CaptureStep{domain.StepMailingList}, report.FailedSteps())
	assert.Contains(t, report.Message("Thanks!"), "mailing list")
	// Later steps still ran.
	mail.AssertExpectations(t)
}

func TestCaptureNoteAndEmailFailuresAccumulate(t *testing.T) {
	crmClient := new(mockCRM)
	mail := new(mockMailer)

	crmClient.On("UpsertContact", mock.Anything, mock.Anything).Return("contact-1", nil)
	crmClient.On("CreateNote", mock.Anything, "contact-1", mock.Anything).Return(errors.New("notes api down"))
	mail.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	lead := contactLead()
	lead.OptIn = false

	svc := NewLeadService(crmClient, nil, mail, nil, leadConfig(), testLogger())
	report, err := svc.Capture(context.Background(), lead)
	require.NoError(t, err)

	assert.Equal(t, []domain.CaptureStep{domain.StepCRMNote, domain.StepNotifyEmail}, report.FailedSteps())
	assert.Len(t, report.Warnings(), 2)
}

func TestCaptureSkipsMailingListWithoutOptIn(t *testing.T) {
	crmClient := new(mockCRM)
	mailing := new(mockMailing)
	mail := new(mockMailer)

	crmClient.On("UpsertContact", mock.Anything, mock.Anything).Return("contact-1", nil)
	crmClient.On("CreateNote", mock.Anything, "contact-1", mock.Anything).Return(nil)
	mail.On("Send", mock.Anything, mock.Anything).Return(nil)

	lead := contactLead()
	lead.OptIn = false

	svc := NewLeadService(crmClient, mailing, mail, nil, leadConfig(), testLogger())
	_, err := svc.Capture(context.Background(), lead)
	require.NoError(t, err)

	mailing.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCaptureEnquiryPublishesEnquiryEvent(t *testing.T) {
	crmClient := new(mockCRM)
	publisher := new(mockLeadPublisher)

	crmClient.On("UpsertContact", mock.Anything, mock.Anything).Return("contact-2", nil)
	crmClient.On("CreateNote", mock.Anything, "contact-2", mock.MatchedBy(func(body string) bool {
		return body != ""
	})).Return(nil)
	publisher.On("EnquirySubmitted", mock.Anything, mock.MatchedBy(func(d event.LeadCapturedData) bool {
		return d.ContactID == "contact-2" && d.ArtworkHandle == "dusk-study"
	})).Return()

	svc := NewLeadService(crmClient, nil, nil, publisher, leadConfig(), testLogger())
	_, err := svc.Capture(context.Background(), domain.Lead{
		Kind:    domain.LeadKindEnquiry,
		Name:    "Jo Reed",
		Email:   "jo@example.com",
		Artwork: "dusk-study",
	})
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestCaptureSubscribeSkipsNote(t *testing.T) {
	crmClient := new(mockCRM)
	mailing := new(mockMailing)

	crmClient.On("UpsertContact", mock.Anything, mock.Anything).Return("contact-3", nil)
	mailing.On("Subscribe", mock.Anything, "jo@example.com", "", "").Return(nil)

	svc := NewLeadService(crmClient, mailing, nil, nil, LeadConfig{}, testLogger())
	report, err := svc.Capture(context.Background(), domain.Lead{
		Kind:  domain.LeadKindSubscribe,
		Email: "jo@example.com",
		OptIn: true,
	})
	require.NoError(t, err)

	assert.False(t, report.Partial())
	crmClient.AssertNotCalled(t, "CreateNote", mock.Anything, mock.Anything, mock.Anything)
}

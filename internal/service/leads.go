package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/crm"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/event"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/mailer"
	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
)

// CRMClient is the CRM surface the capture pipeline writes to.
type CRMClient interface {
	UpsertContact(ctx context.Context, contact crm.Contact) (string, error)
	CreateNote(ctx context.Context, contactID, body string) error
}

// MailingClient upserts mailing-list subscribers.
type MailingClient interface {
	Subscribe(ctx context.Context, email, firstName, lastName string) error
}

// MailerClient sends the internal notification email.
type MailerClient interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// LeadPublisher emits capture events. Best effort only.
type LeadPublisher interface {
	LeadCaptured(ctx context.Context, data event.LeadCapturedData)
	EnquirySubmitted(ctx context.Context, data event.LeadCapturedData)
	NewsletterSubscribed(ctx context.Context, data event.NewsletterSubscribedData)
}

// LeadConfig holds the addressing for notification email.
type LeadConfig struct {
	NotifyFrom string
	NotifyTo   string
}

// LeadService runs the capture pipeline: CRM upsert, then a sequence of
// independent side effects whose failures degrade the response instead of
// aborting it. Only the initial CRM upsert is fatal.
type LeadService struct {
	crm       CRMClient
	mailing   MailingClient
	mailer    MailerClient
	publisher LeadPublisher
	cfg       LeadConfig
	logger    *slog.Logger
}

// NewLeadService creates the lead-capture service. mailing, mailer, and
// publisher may be nil, disabling their steps.
func NewLeadService(crmClient CRMClient, mailing MailingClient, mail MailerClient, publisher LeadPublisher, cfg LeadConfig, logger *slog.Logger) *LeadService {
	return &LeadService{
		crm:       crmClient,
		mailing:   mailing,
		mailer:    mail,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Capture runs the pipeline for one validated lead. The returned report
// carries the contact ID and any partial-failure warnings; a non-nil error
// means the fatal CRM upsert failed.
func (s *LeadService) Capture(ctx context.Context, lead domain.Lead) (*domain.CaptureReport, error) {
	report := &domain.CaptureReport{}

	first, last := splitName(lead.Name)
	contactID, err := s.crm.UpsertContact(ctx, crm.Contact{
		Email:     lead.Email,
		FirstName: first,
		LastName:  last,
		Phone:     lead.Phone,
		Source:    "website-" + lead.Kind,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "crm upsert failed",
			slog.String("component", "crm"),
			slog.String("kind", lead.Kind),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Upstream("crm", "we couldn't save your details, please try again")
	}
	report.ContactID = contactID

	if note := noteBody(lead); note != "" {
		if err := s.crm.CreateNote(ctx, contactID, note); err != nil {
			s.logger.WarnContext(ctx, "crm note failed",
				slog.String("component", "crm"),
				slog.String("contact_id", contactID),
				slog.String("error", err.Error()),
			)
			report.Warn(domain.StepCRMNote, "We saved your details but couldn't record your message.")
		}
	}

	if lead.OptIn && s.mailing != nil {
		if err := s.mailing.Subscribe(ctx, lead.Email, first, last); err != nil {
			s.logger.WarnContext(ctx, "mailing-list subscribe failed",
				slog.String("component", "mailing-list"),
				slog.String("error", err.Error()),
			)
			report.Warn(domain.StepMailingList, "We couldn't add you to our mailing list.")
		}
	}

	if s.mailer != nil && s.cfg.NotifyTo != "" {
		if err := s.mailer.Send(ctx, notifyMessage(s.cfg, lead)); err != nil {
			s.logger.WarnContext(ctx, "notification email failed",
				slog.String("component", "email"),
				slog.String("error", err.Error()),
			)
			report.Warn(domain.StepNotifyEmail, "Our team notification failed, but your message was received.")
		}
	}

	s.publishCapture(ctx, lead, report)
	return report, nil
}

// publishCapture emits the matching domain event. Failures never reach the
// caller.
func (s *LeadService) publishCapture(ctx context.Context, lead domain.Lead, report *domain.CaptureReport) {
	if s.publisher == nil {
		return
	}
	switch lead.Kind {
	case domain.LeadKindEnquiry:
		s.publisher.EnquirySubmitted(ctx, event.LeadCapturedData{
			ContactID:     report.ContactID,
			Email:         lead.Email,
			ArtworkHandle: lead.Artwork,
			Partial:       report.Partial(),
		})
	case domain.LeadKindSubscribe:
		s.publisher.NewsletterSubscribed(ctx, event.NewsletterSubscribedData{
			ContactID: report.ContactID,
			Email:     lead.Email,
		})
	default:
		s.publisher.LeadCaptured(ctx, event.LeadCapturedData{
			ContactID: report.ContactID,
			Email:     lead.Email,
			Partial:   report.Partial(),
		})
	}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(name))
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// noteBody builds the CRM timeline note. Subscriptions with no message
// produce no note.
func noteBody(lead domain.Lead) string {
	var b strings.Builder
	switch lead.Kind {
	case domain.LeadKindEnquiry:
		b.WriteString("Artwork enquiry")
		if lead.Artwork != "" {
			b.WriteString(": " + lead.Artwork)
		}
	case domain.LeadKindContact:
		b.WriteString("Contact form submission")
	default:
		if lead.Message == "" {
			return ""
		}
		b.WriteString("Website submission")
	}
	if lead.Message != "" {
		b.WriteString("\n\n" + lead.Message)
	}
	return b.String()
}

func notifyMessage(cfg LeadConfig, lead domain.Lead) mailer.Message {
	subject := "New website enquiry"
	switch lead.Kind {
	case domain.LeadKindEnquiry:
		subject = "New artwork enquiry"
		if lead.Artwork != "" {
			subject += ": " + lead.Artwork
		}
	case domain.LeadKindSubscribe:
		subject = "New newsletter subscriber"
	case domain.LeadKindContact:
		subject = "New contact form submission"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<p><strong>Name:</strong> %s</p>", htmlEscape(lead.Name)))
	b.WriteString(fmt.Sprintf("<p><strong>Email:</strong> %s</p>", htmlEscape(lead.Email)))
	if lead.Phone != "" {
		b.WriteString(fmt.Sprintf("<p><strong>Phone:</strong> %s</p>", htmlEscape(lead.Phone)))
	}
	if lead.Artwork != "" {
		b.WriteString(fmt.Sprintf("<p><strong>Artwork:</strong> %s</p>", htmlEscape(lead.Artwork)))
	}
	if lead.Message != "" {
		b.WriteString(fmt.Sprintf("<p>%s</p>", htmlEscape(lead.Message)))
	}

	return mailer.Message{
		From:    cfg.NotifyFrom,
		To:      []string{cfg.NotifyTo},
		ReplyTo: lead.Email,
		Subject: subject,
		HTML:    b.String(),
	}
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

package domain

import "strings"

// Lead kinds accepted by the capture endpoints.
const (
	LeadKindContact   = "contact"
	LeadKindEnquiry   = "enquiry"
	LeadKindSubscribe = "subscribe"
)

// Lead is a validated lead-capture submission.
type Lead struct {
	Kind      string `json:"kind"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message,omitempty"`
	OptIn     bool   `json:"optIn"`
	ArtworkID string `json:"artworkId,omitempty"`
	Artwork   string `json:"artwork,omitempty"`
}

// CaptureStep names one side effect of the capture pipeline. The CRM upsert
// is fatal; every later step is independent and its failure only degrades
// the response.
type CaptureStep string

const (
	StepCRMUpsert   CaptureStep = "crm"
	StepCRMNote     CaptureStep = "crm-note"
	StepMailingList CaptureStep = "mailing-list"
	StepNotifyEmail CaptureStep = "notify-email"
)

// CaptureReport accumulates the outcome of the capture pipeline's
// independent side effects. It replaces ad-hoc mutation of a message slice
// across nested error handling: each failed step records a warning under its
// name and the final message is derived once.
type CaptureReport struct {
	ContactID string
	warnings  []stepWarning
}

type stepWarning struct {
	step    CaptureStep
	message string
}

// Warn records a user-facing partial-failure message for a step.
func (r *CaptureReport) Warn(step CaptureStep, message string) {
	r.warnings = append(r.warnings, stepWarning{step: step, message: message})
}

// Partial reports whether any step degraded.
func (r *CaptureReport) Partial() bool {
	return len(r.warnings) > 0
}

// FailedSteps returns the names of the degraded steps in order.
func (r *CaptureReport) FailedSteps() []CaptureStep {
	steps := make([]CaptureStep, len(r.warnings))
	for i, w := range r.warnings {
		steps[i] = w.step
	}
	return steps
}

// Warnings returns the recorded partial-failure messages in step order.
func (r *CaptureReport) Warnings() []string {
	msgs := make([]string, len(r.warnings))
	for i, w := range r.warnings {
		msgs[i] = w.message
	}
	return msgs
}

// Message joins the partial-failure messages, or returns the success
// message when every step succeeded.
func (r *CaptureReport) Message(success string) string {
	if len(r.warnings) == 0 {
		return success
	}
	return strings.Join(r.Warnings(), " ")
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureReport_AllSucceeded(t *testing.T) {
	var r CaptureReport

	assert.False(t, r.Partial())
	assert.Equal(t, "Thanks, we'll be in touch.", r.Message("Thanks, we'll be in touch."))
	assert.Empty(t, r.Warnings())
}

func TestCaptureReport_PartialFailures(t *testing.T) {
	var r CaptureReport
	r.Warn(StepMailingList, "We couldn't add you to the mailing list.")
	r.Warn(StepNotifyEmail, "The notification email failed to send.")

	assert.True(t, r.Partial())
	assert.Equal(t,
		"We couldn't add you to the mailing list. The notification email failed to send.",
		r.Message("Thanks!"),
	)
	assert.Len(t, r.Warnings(), 2)
}

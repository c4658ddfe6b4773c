package payment

import (
	"testing"

	"github.com/nexusvision/studio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceRoundTrip(t *testing.T) {
	ref := EncodeReference("user-123", models.PlanProYearly)
	assert.Equal(t, "user-123:pro_yearly", ref)

	userID, planID, err := DecodeReference(ref)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, models.PlanProYearly, planID)
}

func TestDecodeReferenceUserIDWithColons(t *testing.T) {
	userID, planID, err := DecodeReference("tenant:user-1:pro")
	require.NoError(t, err)
	assert.Equal(t, "tenant:user-1", userID)
	assert.Equal(t, models.PlanPro, planID)
}

func TestDecodeReferenceMalformed(t *testing.T) {
	tests := []string{
		"",
		"no-separator",
		":pro",
		"user-1:",
		"user-1:not_a_plan",
	}

	for _, ref := range tests {
		t.Run(ref, func(t *testing.T) {
			_, _, err := DecodeReference(ref)
			assert.Error(t, err)
		})
	}
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditsDebit(t *testing.T) {
	tests := []struct {
		name     string
		credits  Credits
		amount   int
		expected int
		wantErr  bool
	}{
		{name: "Simple debit", credits: Metered(5), amount: 1, expected: 4},
		{name: "Debit to zero", credits: Metered(1), amount: 1, expected: 0},
		{name: "Exhausted balance", credits: Metered(0), amount: 1, wantErr: true},
		{name: "Negative guard", credits: Metered(2), amount: 3, wantErr: true},
		{name: "Unlimited passthrough", credits: UnlimitedCredits(), amount: 100, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debited, err := tt.credits.Debit(tt.amount)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsufficientCredits)
				assert.Equal(t, tt.credits, debited)
				return
			}

			require.NoError(t, err)
			if tt.credits.Unlimited {
				assert.True(t, debited.Unlimited)
			} else {
				assert.Equal(t, tt.expected, debited.Amount)
			}
		})
	}
}

func TestCreditsAdd(t *testing.T) {
	assert.Equal(t, 79, Metered(4).Add(75).Amount)
	assert.True(t, UnlimitedCredits().Add(75).Unlimited)
}

func TestCreditsJSON(t *testing.T) {
	metered, err := json.Marshal(Metered(42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(metered))

	unlimited, err := json.Marshal(UnlimitedCredits())
	require.NoError(t, err)
	assert.Equal(t, `"unlimited"`, string(unlimited))

	var c Credits
	require.NoError(t, json.Unmarshal([]byte("7"), &c))
	assert.Equal(t, Metered(7), c)

	require.NoError(t, json.Unmarshal([]byte(`"unlimited"`), &c))
	assert.True(t, c.Unlimited)

	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &c))
}

func TestPlanIDValid(t *testing.T) {
	for _, id := range []PlanID{PlanFree, PlanStarter, PlanPro, PlanUltra, PlanStarterYearly, PlanProYearly, PlanUltraYearly} {
		assert.True(t, id.Valid(), string(id))
	}
	assert.False(t, PlanID("mega").Valid())
	assert.False(t, PlanID("").Valid())
}

func TestCheckoutPreferenceRedirectURL(t *testing.T) {
	assert.Equal(t, "a", CheckoutPreference{InitPoint: "a", SandboxInitPoint: "b", Permalink: "c"}.RedirectURL())
	assert.Equal(t, "b", CheckoutPreference{SandboxInitPoint: "b", Permalink: "c"}.RedirectURL())
	assert.Equal(t, "c", CheckoutPreference{Permalink: "c"}.RedirectURL())
}

package explain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("renders the full profile", func(t *testing.T) {
		prompt := buildPrompt("The Clean Water Act amendment requires lead pipe replacement by 2030.", Profile{
			ZipCode:           "12601",
			Role:              "teacher",
			Age:               35,
			IncomeBracket:     "middle",
			HousingStatus:     "renter",
			ImmigrationStatus: "citizen",
			HealthcareAccess:  "private",
		})

		assert.True(t, strings.HasPrefix(prompt, "\nYou are CivicBridge"))
		assert.Contains(t, prompt, "- Zip Code: 12601\n")
		assert.Contains(t, prompt, "- Role: teacher\n")
		assert.Contains(t, prompt, "- Age: 35\n")
		assert.Contains(t, prompt, "- Income Bracket: middle\n")
		assert.Contains(t, prompt, "- Housing Status: renter\n")
		assert.Contains(t, prompt, "- Healthcare Access: private\n")
		assert.Contains(t, prompt, "POLICY TO EXPLAIN:\nThe Clean Water Act amendment requires lead pipe replacement by 2030.\n")
		assert.Contains(t, prompt, "8th-grade reading level")
		assert.Contains(t, prompt, "Keep the explanation under 400 words")
		assert.Contains(t, prompt, "Generate a clear, helpful explanation now:")
		assert.NotContains(t, prompt, "citizen\n- Income", "immigration status stays out of the prompt")
		assert.NotContains(t, prompt, "Immigration")
	})

	t.Run("falls back to placeholders for an empty profile", func(t *testing.T) {
		prompt := buildPrompt("Some policy text for testing.", Profile{})

		assert.Contains(t, prompt, "- Zip Code: N/A\n")
		assert.Contains(t, prompt, "- Role: general citizen\n")
		assert.Contains(t, prompt, "- Age: N/A\n")
		assert.Contains(t, prompt, "- Income Bracket: N/A\n")
		assert.Contains(t, prompt, "- Housing Status: N/A\n")
		assert.Contains(t, prompt, "- Healthcare Access: N/A\n")
	})
}

func TestMissingProfileFields(t *testing.T) {
	assert.Empty(t, missingProfileFields(Profile{
		ZipCode:          "12601",
		Role:             "teacher",
		Age:              35,
		IncomeBracket:    "middle",
		HousingStatus:    "renter",
		HealthcareAccess: "private",
	}))

	missing := missingProfileFields(Profile{Role: "student"})
	assert.Equal(t, []string{"zip_code", "age", "income_bracket", "housing_status", "healthcare_access"}, missing)
}

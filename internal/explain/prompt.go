package explain

import (
	"fmt"
	"strconv"
)

// Profile describes the requesting citizen. Everything except the policy
// choice is optional; absent fields render as placeholders in the prompt.
type Profile struct {
	ZipCode           string
	Role              string
	Age               int
	IncomeBracket     string
	HousingStatus     string
	ImmigrationStatus string
	HealthcareAccess  string
}

const promptTemplate = `
You are CivicBridge, an AI assistant that explains government policies in simple,
personalized terms. Your goal is to help citizens understand how policies affect them directly.

USER CONTEXT:
- Zip Code: %s
- Role: %s
- Age: %s
- Income Bracket: %s
- Housing Status: %s
- Healthcare Access: %s

POLICY TO EXPLAIN:
%s

INSTRUCTIONS:
1. Explain this policy in plain English (8th-grade reading level)
2. Focus specifically on how it affects someone in the user's situation
3. Be factual and non-partisan
4. Include practical implications (costs, benefits, requirements, deadlines)
5. If the policy doesn't directly affect this user, explain why
6. Keep the explanation under 400 words
7. Use bullet points for key impacts when helpful

RESPONSE FORMAT:
Start with a one-sentence summary, then provide details about personal impact.

Example structure:
"This policy [brief summary of what it does].

For someone in your situation:
• [Direct impact 1]
• [Direct impact 2]
• [What you need to know/do]

[Additional context if needed]"

Generate a clear, helpful explanation now:
`

// buildPrompt renders the explanation prompt for one policy text and
// profile. The immigration status is collected for future personalization
// but deliberately kept out of the prompt.
func buildPrompt(policyText string, p Profile) string {
	return fmt.Sprintf(promptTemplate,
		orPlaceholder(p.ZipCode, "N/A"),
		orPlaceholder(p.Role, "general citizen"),
		ageString(p.Age),
		orPlaceholder(p.IncomeBracket, "N/A"),
		orPlaceholder(p.HousingStatus, "N/A"),
		orPlaceholder(p.HealthcareAccess, "N/A"),
		policyText,
	)
}

// missingProfileFields names the empty personalization fields so callers can
// log how sparse the profile was.
func missingProfileFields(p Profile) []string {
	var missing []string
	if p.ZipCode == "" {
		missing = append(missing, "zip_code")
	}
	if p.Role == "" {
		missing = append(missing, "role")
	}
	if p.Age == 0 {
		missing = append(missing, "age")
	}
	if p.IncomeBracket == "" {
		missing = append(missing, "income_bracket")
	}
	if p.HousingStatus == "" {
		missing = append(missing, "housing_status")
	}
	if p.HealthcareAccess == "" {
		missing = append(missing, "healthcare_access")
	}
	return missing
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func ageString(age int) string {
	if age <= 0 {
		return "N/A"
	}
	return strconv.Itoa(age)
}

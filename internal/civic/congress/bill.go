package congress

import (
	"fmt"
	"strings"
)

// Bill is the subset of a Congress.gov bill entry the service consumes.
type Bill struct {
	Congress     int          `json:"congress"`
	Number       string       `json:"number"`
	Type         string       `json:"type"`
	Title        string       `json:"title"`
	Summary      string       `json:"summary"`
	UpdateDate   string       `json:"updateDate"`
	URL          string       `json:"url"`
	LatestAction LatestAction `json:"latestAction"`
	PolicyArea   *PolicyArea  `json:"policyArea"`
	Sponsors     []Sponsor    `json:"sponsors"`
}

// LatestAction is the most recent recorded action on a bill.
type LatestAction struct {
	ActionDate string `json:"actionDate"`
	Text       string `json:"text"`
}

// PolicyArea is the single policy area Congress.gov assigns to a bill.
type PolicyArea struct {
	Name string `json:"name"`
}

// Sponsor identifies a bill's sponsoring member.
type Sponsor struct {
	FullName string `json:"fullName"`
	Party    string `json:"party"`
	State    string `json:"state"`
}

// Identifier renders the bill's display number, e.g. "HR 1234".
func (b Bill) Identifier() string {
	if b.Number == "" {
		return "Unknown Bill"
	}
	return strings.TrimSpace(strings.ToUpper(b.Type) + " " + b.Number)
}

// StatusSummary renders a short human-readable status line derived from the
// bill's latest action, e.g. "✅ Passed House - 2025-03-12".
func (b Bill) StatusSummary() string {
	actionText := b.LatestAction.Text
	if actionText == "" {
		actionText = "No recent action"
	}
	actionDate := b.LatestAction.ActionDate
	if actionDate == "" {
		actionDate = "Unknown date"
	}

	lower := strings.ToLower(actionText)
	var status string
	switch {
	case strings.Contains(lower, "passed"):
		switch {
		case strings.Contains(lower, "house"):
			status = "✅ Passed House"
		case strings.Contains(lower, "senate"):
			status = "✅ Passed Senate"
		default:
			status = "✅ Passed"
		}
	case strings.Contains(lower, "introduced"):
		status = "📋 Introduced"
	case strings.Contains(lower, "committee"):
		status = "🏛️ In Committee"
	case strings.Contains(lower, "signed"):
		status = "✅ Signed into Law"
	case strings.Contains(lower, "vetoed"):
		status = "❌ Vetoed"
	default:
		status = "⏳ In Progress"
	}
	return status + " - " + actionDate
}

// FormatForExplanation renders the bill as plain text suitable for feeding to
// the policy explainer.
func (b Bill) FormatForExplanation() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Bill: %s (%dth Congress)\n", b.Identifier(), b.Congress)
	fmt.Fprintf(&sb, "Title: %s\n\n", b.Title)

	if len(b.Sponsors) > 0 {
		s := b.Sponsors[0]
		fmt.Fprintf(&sb, "Sponsored by: %s (%s-%s)\n", s.FullName, s.Party, s.State)
	}

	policyArea := "General"
	if b.PolicyArea != nil && b.PolicyArea.Name != "" {
		policyArea = b.PolicyArea.Name
	}
	fmt.Fprintf(&sb, "Policy Area: %s\n", policyArea)
	fmt.Fprintf(&sb, "Current Status: %s\n\n", b.StatusSummary())

	if b.LatestAction.Text != "" {
		fmt.Fprintf(&sb, "Latest Action: %s\n\n", b.LatestAction.Text)
	}

	if b.Summary != "" && b.Summary != b.Title {
		fmt.Fprintf(&sb, "Summary: %s", b.Summary)
	} else {
		sb.WriteString("This is a bill currently in Congress. ")
		sb.WriteString("Detailed summary may be available as the bill progresses through the legislative process.")
	}
	return sb.String()
}

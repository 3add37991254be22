package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"civicbridge/internal/explain"
	dErrors "civicbridge/pkg/domain-errors"
)

// ExplainRequest selects a policy source and carries the requester profile.
type ExplainRequest struct {
	// PolicyChoice arrives as "2" from some clients and 2 from others.
	PolicyChoice json.RawMessage `json:"policy_choice"`
	PolicyText   string          `json:"policy_text"`
	Topic        string          `json:"topic"`
	Query        string          `json:"query"`

	ZipCode           string `json:"zip_code"`
	Role              string `json:"role"`
	Age               int    `json:"age"`
	IncomeBracket     string `json:"income_bracket"`
	HousingStatus     string `json:"housing_status"`
	ImmigrationStatus string `json:"immigration_status"`
	HealthcareAccess  string `json:"healthcare_access"`

	choice string
}

func (r *ExplainRequest) Validate() error {
	r.choice = normalizeChoice(r.PolicyChoice)
	r.Topic = strings.TrimSpace(r.Topic)
	r.Query = strings.TrimSpace(r.Query)

	switch r.choice {
	case explain.ChoiceDirectText, explain.ChoiceRecentRules, explain.ChoiceTrendingBills:
	case explain.ChoiceTopicDocuments, explain.ChoiceTopicBills:
		if r.Topic == "" {
			return dErrors.New(dErrors.CodeValidation, "Topic is required for this policy choice")
		}
	case explain.ChoiceDocumentSearch, explain.ChoiceBillSearch:
		if r.Query == "" {
			return dErrors.New(dErrors.CodeValidation, "Search query is required for this policy choice")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "policy_choice must be between 1 and 7")
	}
	return nil
}

// Choice returns the normalized policy choice. Only valid after Validate.
func (r *ExplainRequest) Choice() string {
	return r.choice
}

// ToServiceRequest maps the wire request onto the explain service input.
func (r *ExplainRequest) ToServiceRequest() explain.Request {
	return explain.Request{
		Choice:     r.choice,
		PolicyText: r.PolicyText,
		Topic:      r.Topic,
		Query:      r.Query,
		Profile: explain.Profile{
			ZipCode:           r.ZipCode,
			Role:              r.Role,
			Age:               r.Age,
			IncomeBracket:     r.IncomeBracket,
			HousingStatus:     r.HousingStatus,
			ImmigrationStatus: r.ImmigrationStatus,
			HealthcareAccess:  r.HealthcareAccess,
		},
	}
}

func normalizeChoice(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.Itoa(n)
	}
	return ""
}

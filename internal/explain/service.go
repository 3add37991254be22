// Package explain turns a policy source selection into a personalized
// plain-English explanation via a pluggable completion provider.
package explain

import (
	"context"
	"log/slog"
	"strings"

	"civicbridge/internal/civic/congress"
	"civicbridge/internal/civic/fedreg"
	dErrors "civicbridge/pkg/domain-errors"
)

// Policy source choices, mirroring the numbered menu web clients present.
const (
	ChoiceDirectText     = "1"
	ChoiceTopicDocuments = "2"
	ChoiceRecentRules    = "3"
	ChoiceDocumentSearch = "4"
	ChoiceTopicBills     = "5"
	ChoiceBillSearch     = "6"
	ChoiceTrendingBills  = "7"
)

const (
	recentRulesWindowDays = 14
	trendingWindowDays    = 14
	documentSearchDays    = 90
	documentSearchPerPage = 20
	topicBillLimit        = 20
	searchBillLimit       = 10

	minPolicyTextChars = 10
	maxPolicyTextChars = 10000
)

// Completer generates a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// FederalSource supplies federal register documents for policy selection.
type FederalSource interface {
	PolicyByTopic(ctx context.Context, topic string) ([]fedreg.Document, error)
	RecentRules(ctx context.Context, daysBack int) ([]fedreg.Document, error)
	SearchDocuments(ctx context.Context, query string, docTypes []string, daysBack, perPage int) ([]fedreg.Document, error)
}

// CongressSource supplies congressional bills for policy selection.
type CongressSource interface {
	BillsByTopic(ctx context.Context, topic string, limit int) ([]congress.Bill, error)
	SearchBills(ctx context.Context, query string, limit int) ([]congress.Bill, error)
	TrendingBills(ctx context.Context, daysBack int) ([]congress.Bill, error)
}

// Request selects a policy source and carries the requesting profile.
type Request struct {
	Choice     string
	PolicyText string
	Topic      string
	Query      string
	Profile    Profile
}

// Explanation is the personalized result for one request.
type Explanation struct {
	ZipCode     string
	Role        string
	Explanation string
}

type Service struct {
	completer Completer
	federal   FederalSource
	congress  CongressSource
	logger    *slog.Logger
}

func New(completer Completer, federal FederalSource, congress CongressSource, logger *slog.Logger) *Service {
	return &Service{
		completer: completer,
		federal:   federal,
		congress:  congress,
		logger:    logger,
	}
}

// Explain resolves the selected policy source to text, validates it, and
// asks the completion provider for a personalized explanation.
func (s *Service) Explain(ctx context.Context, req Request) (*Explanation, error) {
	policyText, err := s.resolvePolicyText(ctx, req)
	if err != nil {
		return nil, err
	}

	policyText = strings.TrimSpace(policyText)
	if policyText == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "No policy text found")
	}
	runes := []rune(policyText)
	if len(runes) < minPolicyTextChars {
		return nil, dErrors.New(dErrors.CodeValidation, "Policy text must be at least 10 characters")
	}
	if len(runes) > maxPolicyTextChars {
		s.logger.WarnContext(ctx, "policy text truncated due to length",
			"chars", len(runes),
		)
		policyText = string(runes[:maxPolicyTextChars])
	}

	if missing := missingProfileFields(req.Profile); len(missing) > 0 {
		s.logger.WarnContext(ctx, "missing user context fields",
			"fields", strings.Join(missing, ","),
		)
	}

	completion, err := s.completer.Complete(ctx, buildPrompt(policyText, req.Profile))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExplainFailed, "Failed to generate policy explanation")
	}
	completion = strings.TrimSpace(completion)
	if completion == "" {
		return nil, dErrors.New(dErrors.CodeExplainFailed, "Empty response from completion provider")
	}

	return &Explanation{
		ZipCode:     req.Profile.ZipCode,
		Role:        req.Profile.Role,
		Explanation: completion,
	}, nil
}

// resolvePolicyText maps a choice to its policy source and renders the first
// result for the prompt. An empty return with nil error means the source had
// nothing to offer.
func (s *Service) resolvePolicyText(ctx context.Context, req Request) (string, error) {
	switch req.Choice {
	case ChoiceDirectText:
		return req.PolicyText, nil

	case ChoiceTopicDocuments:
		docs, err := s.federal.PolicyByTopic(ctx, req.Topic)
		return firstDocument(docs), err

	case ChoiceRecentRules:
		docs, err := s.federal.RecentRules(ctx, recentRulesWindowDays)
		return firstDocument(docs), err

	case ChoiceDocumentSearch:
		docs, err := s.federal.SearchDocuments(ctx, req.Query, nil, documentSearchDays, documentSearchPerPage)
		return firstDocument(docs), err

	case ChoiceTopicBills:
		bills, err := s.congress.BillsByTopic(ctx, req.Topic, topicBillLimit)
		return firstBill(bills), err

	case ChoiceBillSearch:
		bills, err := s.congress.SearchBills(ctx, req.Query, searchBillLimit)
		return firstBill(bills), err

	case ChoiceTrendingBills:
		bills, err := s.congress.TrendingBills(ctx, trendingWindowDays)
		return firstBill(bills), err
	}
	return "", dErrors.New(dErrors.CodeValidation, "policy_choice must be between 1 and 7")
}

func firstDocument(docs []fedreg.Document) string {
	if len(docs) == 0 {
		return ""
	}
	return docs[0].FormatForExplanation()
}

func firstBill(bills []congress.Bill) string {
	if len(bills) == 0 {
		return ""
	}
	return bills[0].FormatForExplanation()
}

package handler

import (
	"strings"
	"unicode/utf8"

	"civicbridge/internal/policyhub"
	dErrors "civicbridge/pkg/domain-errors"
)

// TopicRequest selects a curated policy area to browse.
type TopicRequest struct {
	Topic string `json:"topic"`
}

func (r *TopicRequest) Validate() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if !policyhub.ValidTopic(r.Topic) {
		return dErrors.New(dErrors.CodeValidation,
			"Invalid topic. Must be one of: "+strings.Join(policyhub.TopicNames(), ", "))
	}
	return nil
}

// SearchRequest carries a free-text policy query.
type SearchRequest struct {
	Query string `json:"query"`
}

func (r *SearchRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return dErrors.New(dErrors.CodeValidation, "Search query required")
	}
	if utf8.RuneCountInString(r.Query) < 2 {
		return dErrors.New(dErrors.CodeValidation, "Search query must be at least 2 characters")
	}
	return nil
}

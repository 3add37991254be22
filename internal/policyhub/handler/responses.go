package handler

import (
	"civicbridge/internal/policyhub"
)

// TopicFeedResponse is the merged feed for one curated topic.
type TopicFeedResponse struct {
	Policies      []policyhub.Policy `json:"policies"`
	Topic         string             `json:"topic"`
	TopicDisplay  string             `json:"topic_display"`
	TotalCount    int                `json:"total_count"`
	FederalCount  int                `json:"federal_count"`
	CongressCount int                `json:"congress_count"`
}

// SearchFeedResponse is the merged feed for a free-text query.
type SearchFeedResponse struct {
	Policies      []policyhub.Policy `json:"policies"`
	Query         string             `json:"query"`
	TotalCount    int                `json:"total_count"`
	FederalCount  int                `json:"federal_count"`
	CongressCount int                `json:"congress_count"`
}

func fromTopicFeed(topic string, feed *policyhub.Feed) TopicFeedResponse {
	return TopicFeedResponse{
		Policies:      policies(feed),
		Topic:         topic,
		TopicDisplay:  policyhub.DisplayName(topic),
		TotalCount:    len(feed.Policies),
		FederalCount:  feed.FederalCount,
		CongressCount: feed.CongressCount,
	}
}

func fromSearchFeed(query string, feed *policyhub.Feed) SearchFeedResponse {
	return SearchFeedResponse{
		Policies:      policies(feed),
		Query:         query,
		TotalCount:    len(feed.Policies),
		FederalCount:  feed.FederalCount,
		CongressCount: feed.CongressCount,
	}
}

func policies(feed *policyhub.Feed) []policyhub.Policy {
	if feed.Policies == nil {
		return []policyhub.Policy{}
	}
	return feed.Policies
}

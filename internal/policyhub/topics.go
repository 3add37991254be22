package policyhub

// topicDisplay maps each browsable policy area to its display form.
// Registration order is preserved separately so validation messages and
// category listings stay stable.
var topicDisplay = map[string]string{
	"healthcare":      "Healthcare",
	"housing":         "Housing",
	"education":       "Education",
	"employment":      "Employment",
	"taxes":           "Taxes",
	"environment":     "Environment",
	"transportation":  "Transportation",
	"immigration":     "Immigration",
	"social_security": "Social Security",
	"veterans":        "Veterans",
}

var topicOrder = []string{
	"healthcare", "housing", "education", "employment",
	"taxes", "environment", "transportation", "immigration",
	"social_security", "veterans",
}

// ValidTopic reports whether topic is one of the browsable policy areas.
func ValidTopic(topic string) bool {
	_, ok := topicDisplay[topic]
	return ok
}

// DisplayName renders a registry topic for display, e.g. "social_security"
// becomes "Social Security". Unknown topics come back unchanged.
func DisplayName(topic string) string {
	if display, ok := topicDisplay[topic]; ok {
		return display
	}
	return topic
}

// TopicNames lists the registry topics in registration order.
func TopicNames() []string {
	names := make([]string, len(topicOrder))
	copy(names, topicOrder)
	return names
}

package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"civicbridge/internal/domain"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("includes context, representatives and history", func(t *testing.T) {
		district := 18
		reps := []domain.Representative{
			{Name: "Patrick Ryan", Chamber: domain.ChamberRepresentative, State: "NY", District: &district},
			{Name: "Charles Schumer", Chamber: domain.ChamberSenator, State: "NY"},
		}
		history := []Exchange{
			{UserMessage: "Who is my senator?", BotResponse: "Your senators are Charles Schumer and Kirsten Gillibrand."},
		}

		prompt := buildPrompt(
			"How do I contact them?",
			UserContext{ZipCode: "12601", Role: "teacher"},
			reps,
			history,
		)

		assert.Contains(t, prompt, "You are CivicBridge, a friendly assistant")
		assert.Contains(t, prompt, "USER CONTEXT:\n- Zip Code: 12601\n- Role: teacher\n")
		assert.Contains(t, prompt, "THE USER'S REPRESENTATIVES:\n- Patrick Ryan (Representative, NY-18)\n- Charles Schumer (Senator, NY)\n")
		assert.Contains(t, prompt, "RECENT CONVERSATION (most recent first):\nUser: Who is my senator?\nCivicBridge: Your senators are Charles Schumer and Kirsten Gillibrand.\n")
		assert.Contains(t, prompt, "USER QUESTION:\nHow do I contact them?\n\nAnswer the question now:\n")
	})

	t.Run("omits empty sections", func(t *testing.T) {
		prompt := buildPrompt("What is a filibuster?", UserContext{}, nil, nil)

		assert.NotContains(t, prompt, "USER CONTEXT:")
		assert.NotContains(t, prompt, "THE USER'S REPRESENTATIVES:")
		assert.NotContains(t, prompt, "RECENT CONVERSATION")
		assert.Contains(t, prompt, "USER QUESTION:\nWhat is a filibuster?")
	})

	t.Run("zip without role still adds context", func(t *testing.T) {
		prompt := buildPrompt("hello", UserContext{ZipCode: "06516"}, nil, nil)

		assert.Contains(t, prompt, "USER CONTEXT:\n- Zip Code: 06516\n")
		assert.NotContains(t, prompt, "- Role:")
	})
}

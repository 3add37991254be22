package chat

import (
	"fmt"
	"strings"

	"civicbridge/internal/domain"
)

const chatPromptHeader = `You are CivicBridge, a friendly assistant that helps citizens understand government, policies, and their elected officials. Answer in plain English, stay factual and non-partisan, and keep responses under 150 words unless the user asks for more detail.`

// buildPrompt assembles the conversational prompt. Representative lines and
// history appear only when available; history keeps the store's newest-first
// order.
func buildPrompt(message string, userCtx UserContext, reps []domain.Representative, history []Exchange) string {
	var sb strings.Builder
	sb.WriteString(chatPromptHeader)
	sb.WriteString("\n")

	if userCtx.ZipCode != "" || userCtx.Role != "" {
		sb.WriteString("\nUSER CONTEXT:\n")
		if userCtx.ZipCode != "" {
			fmt.Fprintf(&sb, "- Zip Code: %s\n", userCtx.ZipCode)
		}
		if userCtx.Role != "" {
			fmt.Fprintf(&sb, "- Role: %s\n", userCtx.Role)
		}
	}

	if len(reps) > 0 {
		sb.WriteString("\nTHE USER'S REPRESENTATIVES:\n")
		for _, rep := range reps {
			sb.WriteString(repLine(rep))
			sb.WriteString("\n")
		}
	}

	if len(history) > 0 {
		sb.WriteString("\nRECENT CONVERSATION (most recent first):\n")
		for _, ex := range history {
			fmt.Fprintf(&sb, "User: %s\nCivicBridge: %s\n", ex.UserMessage, ex.BotResponse)
		}
	}

	fmt.Fprintf(&sb, "\nUSER QUESTION:\n%s\n\nAnswer the question now:\n", message)
	return sb.String()
}

func repLine(rep domain.Representative) string {
	if rep.District != nil {
		return fmt.Sprintf("- %s (%s, %s-%d)", rep.Name, rep.Chamber, rep.State, *rep.District)
	}
	return fmt.Sprintf("- %s (%s, %s)", rep.Name, rep.Chamber, rep.State)
}

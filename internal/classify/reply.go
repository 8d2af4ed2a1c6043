package classify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ReplyGenerator drafts citizen-facing reply text for a status change.
// The model is optional; templated messages are the guaranteed path.
type ReplyGenerator struct {
	model   TextModel
	timeout time.Duration
}

// NewReplyGenerator creates a reply generator sharing the engine's model.
func NewReplyGenerator(model TextModel, timeout time.Duration) *ReplyGenerator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ReplyGenerator{model: model, timeout: timeout}
}

const replyPromptFormat = `You are a helpful customer service assistant for a civic complaint system. Write a polite, professional, and concise response to the user '%s' regarding their complaint titled '%s'. The complaint description: %q. The status is being updated to: '%s'. Keep the message under 50 words and return only the message body.`

// GenerateReply produces reply text for the given status change. Model
// failures and empty answers fall back to the template, so the call
// always yields a usable message.
func (g *ReplyGenerator) GenerateReply(ctx context.Context, citizenName, title, description, status string) string {
	if g.model != nil {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		prompt := fmt.Sprintf(replyPromptFormat, citizenName, title, description, status)
		if answer, err := g.model.Generate(callCtx, prompt); err == nil {
			if text := strings.TrimSpace(answer); text != "" {
				return text
			}
		}
	}

	return TemplateReply(citizenName, title, status)
}

// TemplateReply builds the deterministic reply used when no model is
// available.
func TemplateReply(citizenName, title, status string) string {
	if citizenName == "" {
		citizenName = "Resident"
	}

	var tail string
	switch status {
	case "Resolved":
		tail = "This issue is now resolved."
	case "In Progress":
		tail = "Our team is working on it and will update you soon."
	default:
		tail = "We have received it and will review it shortly."
	}

	return fmt.Sprintf("Hello %s, we have updated your complaint %q to %s. %s", citizenName, title, status, tail)
}

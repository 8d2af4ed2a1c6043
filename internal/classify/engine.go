package classify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/civicdesk/platform/internal/shared/metrics"
)

// TextModel is the external text-generation capability. A single prompt
// produces a single string answer. Implementations may fail or block;
// the engine bounds every call with a timeout and treats any error or
// malformed answer as a miss.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is a complete classification of one complaint text.
type Result struct {
	Category Category `json:"category"`
	Urgency  int      `json:"urgencyLevel"`
}

// Engine classifies complaint text. Model may be nil, in which case only
// the keyword rules run.
type Engine struct {
	model   TextModel
	timeout time.Duration
}

// NewEngine creates a classification engine. A non-positive timeout
// defaults to 5 seconds.
func NewEngine(model TextModel, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Engine{model: model, timeout: timeout}
}

const categoryPromptFormat = `Analyze this civic complaint and categorize it into ONE of these categories:
- Garbage & Sanitation
- Roads & Infrastructure
- Water Supply
- Electricity & Power
- Public Safety
- General

Complaint: %q

Respond with ONLY the category name, nothing else.`

const urgencyPromptFormat = `Analyze this civic complaint and rate its urgency from 1 to 5:
1 = Low urgency (minor issues, can wait weeks)
2 = Medium-low (needs attention within days)
3 = Medium (should be addressed within 1-2 days)
4 = High (urgent, needs immediate attention)
5 = Critical (emergency, life-threatening, requires instant action)

Complaint: %q

Respond with ONLY a number from 1 to 5, nothing else.`

// Classify assigns a category and urgency level to text. It never fails:
// empty text gets the defined default, model errors and malformed model
// output fall through to the keyword rules.
func (e *Engine) Classify(ctx context.Context, text string) Result {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		metrics.RecordClassification("default", time.Since(start))
		return Result{Category: CategoryGeneral, Urgency: MinUrgency}
	}

	category, categoryFromModel := e.modelCategory(ctx, text)
	if !categoryFromModel {
		category = RuleCategory(text)
	}

	urgency, urgencyFromModel := e.modelUrgency(ctx, text)
	if !urgencyFromModel {
		urgency = RuleUrgency(text)
	}

	source := "fallback"
	if categoryFromModel && urgencyFromModel {
		source = "model"
	}
	metrics.RecordClassification(source, time.Since(start))

	return Result{Category: category, Urgency: urgency}
}

// modelCategory asks the text model for a category. The second return is
// false whenever the model is absent, errors out, or answers outside the
// enumerated set.
func (e *Engine) modelCategory(ctx context.Context, text string) (Category, bool) {
	if e.model == nil {
		return "", false
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	answer, err := e.model.Generate(callCtx, fmt.Sprintf(categoryPromptFormat, text))
	if err != nil {
		return "", false
	}

	category := Category(strings.TrimSpace(answer))
	if !ValidCategory(category) {
		return "", false
	}

	return category, true
}

// modelUrgency asks the text model for an urgency level. Answers that do
// not parse to an integer in [1,5] count as a model failure.
func (e *Engine) modelUrgency(ctx context.Context, text string) (int, bool) {
	if e.model == nil {
		return 0, false
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	answer, err := e.model.Generate(callCtx, fmt.Sprintf(urgencyPromptFormat, text))
	if err != nil {
		return 0, false
	}

	urgency, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || !ValidUrgency(urgency) {
		return 0, false
	}

	return urgency, true
}

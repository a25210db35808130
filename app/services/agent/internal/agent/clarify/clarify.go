package clarify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/agent/llm"

	"github.com/cloudwego/eino/components/model"
	"github.com/zeromicro/go-zero/core/logx"
)

type Field string

const (
	FieldNone          Field = ""
	FieldCategory      Field = "category"
	FieldDestination   Field = "destination"
	FieldDates         Field = "dates"
	FieldOccasionStyle Field = "occasion_style"
	FieldBudget        Field = "budget"
)

// priority is the order missing fields are considered in.
var priority = []Field{FieldCategory, FieldDestination, FieldDates, FieldOccasionStyle, FieldBudget}

const maxQuestionLen = 200

type Result struct {
	Ready       bool     `json:"ready"`
	Question    string   `json:"question,omitempty"`
	Field       Field    `json:"field,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Ready reports whether the intent carries enough to recommend: a category
// plus any one of occasion, style or destination.
func Ready(in intent.Intent) bool {
	if in.Category == "" {
		return false
	}
	return in.Occasion != "" || in.Style != "" || in.Destination() != nil
}

// Missing lists the unset fields in asking order.
func Missing(in intent.Intent) []Field {
	var out []Field
	for _, f := range priority {
		if !isSet(in, f) {
			out = append(out, f)
		}
	}
	return out
}

func isSet(in intent.Intent, f Field) bool {
	switch f {
	case FieldCategory:
		return in.Category != ""
	case FieldDestination:
		return in.Destination() != nil
	case FieldDates:
		switch d := in.Destination().(type) {
		case intent.MultiSegment:
			return true
		case intent.SingleDestination:
			return d.Dates != nil
		}
		return false
	case FieldOccasionStyle:
		return in.Occasion != "" || in.Style != ""
	case FieldBudget:
		return in.BudgetMax > 0 || in.BudgetMin > 0
	}
	return true
}

// blocking reports whether filling f could make a non-ready intent ready.
func blocking(in intent.Intent, f Field) bool {
	switch f {
	case FieldCategory:
		return true
	case FieldDestination, FieldOccasionStyle:
		return in.Category != ""
	}
	return false
}

type Clarifier struct {
	phraser model.BaseChatModel
	timeout time.Duration
}

// New builds a clarifier. A nil phraser keeps the template questions.
func New(phraser model.BaseChatModel, timeout time.Duration) *Clarifier {
	return &Clarifier{phraser: phraser, timeout: timeout}
}

// Assess picks the field to ask about and its suggestions from fixed tables,
// so the outcome depends only on which fields are set. Only the wording of
// the question may come from the phrasing model.
func (c *Clarifier) Assess(ctx context.Context, in intent.Intent) Result {
	if Ready(in) {
		return Result{Ready: true}
	}

	field := FieldCategory
	for _, f := range Missing(in) {
		if blocking(in, f) {
			field = f
			break
		}
	}

	res := Result{
		Field:       field,
		Question:    templateQuestion(field, in),
		Suggestions: suggestionsFor(field, in),
	}
	if c != nil && c.phraser != nil {
		if q, ok := c.rephrase(ctx, res.Question, in); ok {
			res.Question = q
		}
	}
	return res
}

func (c *Clarifier) rephrase(ctx context.Context, template string, in intent.Intent) (string, bool) {
	system := "You are a friendly shopping assistant. Rewrite the clarifying question below so it sounds natural and refers to what the shopper already said. Keep the same meaning, ask exactly one question and answer with the question only."
	user := fmt.Sprintf("Known so far: %s\nQuestion: %s", describe(in), template)

	answer, err := llm.Generate(ctx, c.phraser, c.timeout, system, user)
	if err != nil {
		logx.WithContext(ctx).Errorw("clarifying question phrasing failed", logx.Field("err", err))
		return "", false
	}
	answer = strings.Trim(strings.TrimSpace(answer), `"`)
	if answer == "" || len(answer) > maxQuestionLen || !strings.HasSuffix(answer, "?") {
		logx.WithContext(ctx).Infow("discard phrased question", logx.Field("question", answer))
		return "", false
	}
	return answer, true
}

func describe(in intent.Intent) string {
	var parts []string
	add := func(name, v string) {
		if v != "" {
			parts = append(parts, name+"="+v)
		}
	}
	add("category", in.Category)
	add("occasion", in.Occasion)
	add("style", in.Style)
	add("location", in.Location)
	for _, seg := range in.TripSegments {
		parts = append(parts, "stop="+seg.Destination)
	}
	if len(parts) == 0 {
		return "nothing yet"
	}
	return strings.Join(parts, ", ")
}

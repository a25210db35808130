package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TripShopper/app/common/consts/biz"
	"TripShopper/app/services/agent/internal/agent/contextagg"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/agent/llm"
	"TripShopper/app/services/agent/internal/provider/catalog"

	"github.com/cloudwego/eino/components/model"
	"github.com/zeromicro/go-zero/core/logx"
)

const NoResultsText = "I'm sorry, I couldn't find any products that match what you're looking for. Could you describe it a little differently?"

type Result struct {
	Products     []catalog.Product `json:"products"`
	Text         string            `json:"response_text"`
	Query        string            `json:"query"`
	UsedFallback bool              `json:"used_fallback"`
	Narrated     bool              `json:"narrated"`
}

type Recommender struct {
	index        catalog.Index
	narrator     model.BaseChatModel
	limit        int
	indexTimeout time.Duration
	llmTimeout   time.Duration
}

type Option func(*Recommender)

func WithLimit(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.limit = n
		}
	}
}

func WithTimeouts(index, llm time.Duration) Option {
	return func(r *Recommender) {
		if index > 0 {
			r.indexTimeout = index
		}
		if llm > 0 {
			r.llmTimeout = llm
		}
	}
}

func New(index catalog.Index, narrator model.BaseChatModel, opts ...Option) *Recommender {
	r := &Recommender{
		index:        index,
		narrator:     narrator,
		limit:        biz.MaxRecommendations,
		indexTimeout: 5 * time.Second,
		llmTimeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend always returns a non-empty Text. An empty filtered search is
// retried once with only the stock filter before giving up.
func (r *Recommender) Recommend(ctx context.Context, in intent.Intent, bundle *contextagg.Bundle) Result {
	log := logx.WithContext(ctx)
	q := BuildQuery(in, bundle, r.limit*3)
	res := Result{Query: q.Text}

	candidates := r.search(ctx, q)
	if len(candidates) == 0 && q.Filters != q.Filters.Relaxed() {
		log.Infow("filtered search empty, retrying without filters", logx.Field("query", q.Text))
		q.Filters = q.Filters.Relaxed()
		candidates = r.search(ctx, q)
		res.UsedFallback = true
	}

	res.Products = Rank(candidates, r.limit)
	if len(res.Products) == 0 {
		res.Text = NoResultsText
		return res
	}

	if text, err := r.narrate(ctx, in, bundle, res.Products); err != nil {
		log.Errorw("recommendation narration failed", logx.Field("err", err))
		res.Text = TemplateText(res.Products)
	} else {
		res.Text = text
		res.Narrated = true
	}
	return res
}

func (r *Recommender) search(ctx context.Context, q catalog.Query) []catalog.Scored {
	if r.index == nil {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, r.indexTimeout)
	defer cancel()

	start := time.Now()
	out, err := r.index.Search(callCtx, q)
	logx.WithContext(ctx).Infof("product search took %s", time.Since(start))
	if err != nil {
		logx.WithContext(ctx).Errorw("product search failed", logx.Field("err", err))
		return nil
	}
	return out
}

func (r *Recommender) narrate(ctx context.Context, in intent.Intent, bundle *contextagg.Bundle, products []catalog.Product) (string, error) {
	if r.narrator == nil {
		return "", fmt.Errorf("narrator unavailable")
	}
	system := `You are a warm, concise personal shopping assistant. Present the listed products to the shopper in a short conversational answer.
Mention products only from the list, by name. When weather or trip stops are given, explain why the picks suit them. When the shopper has favourite brands in the list, point them out.
Do not invent prices or products. Keep it under 150 words.`
	return llm.Generate(ctx, r.narrator, r.llmTimeout, system, narrationPrompt(in, bundle, products))
}

func narrationPrompt(in intent.Intent, bundle *contextagg.Bundle, products []catalog.Product) string {
	var sb strings.Builder
	sb.WriteString("Shopper wants: ")
	sb.WriteString(strings.Join(in.Fields(), ", "))
	if in.Category != "" {
		sb.WriteString(" (category " + in.Category + ")")
	}

	if bundle != nil {
		if p := bundle.Profile; p != nil {
			sb.WriteString("\nCustomer: " + p.FirstName())
			if len(p.FavoriteBrands) > 0 {
				sb.WriteString("\nFavourite brands: " + strings.Join(p.FavoriteBrands, ", "))
			}
		}
		for _, reading := range bundle.Environmental.Readings() {
			sb.WriteString("\nDestination: " + reading.Location)
			if reading.Date != "" {
				sb.WriteString(" from " + reading.Date)
			}
			if w := reading.Weather; w != nil {
				sb.WriteString(fmt.Sprintf(", %s, %.0f°C", w.Description, w.TemperatureC))
			}
			if len(reading.Trends) > 0 {
				sb.WriteString(", trending: " + strings.Join(reading.Trends, ", "))
			}
		}
	}

	sb.WriteString("\nProducts:")
	for i, p := range products {
		sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, p.Name))
		if p.Brand != "" {
			sb.WriteString(" by " + p.Brand)
		}
		sb.WriteString(fmt.Sprintf(", $%.2f", p.Price))
		if p.Rating > 0 {
			sb.WriteString(fmt.Sprintf(", rated %.1f", p.Rating))
		}
	}
	return sb.String()
}

// TemplateText lists the product names in one sentence.
func TemplateText(products []catalog.Product) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	var list string
	switch len(names) {
	case 0:
		return NoResultsText
	case 1:
		list = names[0]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
	return "Here are some options I picked for you: " + list + "."
}

package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	extractorModelNodeKey = "intent_extractor_model"
	extractorToolName     = "submit_intent_delta"

	historyWindow = 6
)

type HistoryLine struct {
	Role string
	Text string
}

type Input struct {
	Text        string
	Accumulated Intent
	History     []HistoryLine
	Today       Date
}

// Result is the outcome of one extraction. Failed means the model gave
// nothing usable and Delta is empty.
type Result struct {
	Delta   Intent
	Dropped []string
	Failed  bool
	Err     error
}

type Extractor struct {
	runnable compose.Runnable[Input, map[string]any]
	tools    []*schema.ToolInfo
	timeout  time.Duration
	now      func() time.Time
}

type ExtractorOption func(*Extractor)

func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) {
		e.now = now
	}
}

func WithTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.timeout = d
	}
}

func NewExtractor(ctx context.Context, chatModel model.BaseChatModel, opts ...ExtractorOption) (*Extractor, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	tools := []*schema.ToolInfo{buildDeltaTool()}

	extractModel := chatModel
	if toolCapable, ok := chatModel.(model.ToolCallingChatModel); ok {
		if modelWithTools, err := toolCapable.WithTools(tools); err != nil {
			logx.WithContext(ctx).Errorf("bind intent tool failed: %v", err)
		} else {
			extractModel = modelWithTools
		}
	}

	chain := compose.NewChain[Input, map[string]any]()

	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, in Input) ([]*schema.Message, error) {
		return buildExtractionMessages(in)
	}))

	chain.AppendChatModel(extractModel, compose.WithNodeKey(extractorModelNodeKey))

	chain.AppendLambda(compose.InvokableLambda(func(_ context.Context, msg *schema.Message) (map[string]any, error) {
		if msg == nil {
			return nil, fmt.Errorf("empty message")
		}

		payload := extractToolArguments(msg)
		if payload == "" {
			payload = trimJSONBlock(msg.Content)
		}
		if payload == "" {
			return nil, fmt.Errorf("intent delta payload missing")
		}

		raw := make(map[string]any)
		if err := json.Unmarshal([]byte(payload), &raw); err != nil {
			return nil, fmt.Errorf("unmarshal intent delta: %w", err)
		}
		return raw, nil
	}))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		runnable: runnable,
		tools:    tools,
		timeout:  20 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract never returns an error to the caller: a failing model yields an
// empty delta so the turn can continue with what is already known.
func (e *Extractor) Extract(ctx context.Context, text string, acc Intent, history []HistoryLine) Result {
	log := logx.WithContext(ctx)
	if e == nil || e.runnable == nil {
		return Result{Failed: true, Err: fmt.Errorf("intent extractor unavailable")}
	}

	now := e.now()
	in := Input{
		Text:        strings.TrimSpace(text),
		Accumulated: acc,
		History:     tail(history, historyWindow),
		Today:       DateOf(now),
	}

	var opts []compose.Option
	if len(e.tools) > 0 {
		opts = append(opts, compose.WithChatModelOption(
			model.WithTools(e.tools),
			model.WithToolChoice(schema.ToolChoiceForced),
		).DesignateNode(extractorModelNodeKey))
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.runnable.Invoke(callCtx, in, opts...)
	log.Infof("intent extraction took %s", time.Since(start))
	if err != nil {
		log.Errorw("intent extraction failed", logx.Field("err", err))
		return Result{Failed: true, Err: err}
	}

	delta, dropped := ParseDelta(raw, now)
	for _, d := range dropped {
		log.Infow("intent field dropped", logx.Field("field", d))
	}
	return Result{Delta: delta, Dropped: dropped}
}

func buildExtractionMessages(in Input) ([]*schema.Message, error) {
	systemPrompt := `You are the intent analyst of a travel shopping assistant. Read the shopper's latest message and report ONLY the fields that were newly stated or corrected in it.
Fields:
- category: product type the shopper wants (e.g. shoes, jackets, dresses)
- subcategory: narrower product type when stated (e.g. sneakers, raincoat)
- occasion: event or purpose (e.g. wedding, business trip, hiking)
- style: look or feel (e.g. warm, casual, elegant, waterproof)
- brand, gender, size: only when explicitly mentioned
- budget_min / budget_max: positive numbers only
- location: a single destination
- travel_dates: dates for a single destination, as written by the shopper
- trip_segments: only for multi-stop travel, one entry per stop with destination, start_date and end_date as written by the shopper
Omit every field that was not mentioned in the latest message. Never invent values.`

	var instructions strings.Builder
	instructions.WriteString(systemPrompt)
	instructions.WriteString("\nSubmit the result by calling the tool ")
	instructions.WriteString(extractorToolName)
	instructions.WriteString(" and do not output any other text.")

	accumulated, err := json.Marshal(in.Accumulated)
	if err != nil {
		return nil, fmt.Errorf("marshal accumulated intent: %w", err)
	}

	var user strings.Builder
	user.WriteString("Today: ")
	user.WriteString(in.Today.String())
	user.WriteString("\nKnown intent: ")
	user.Write(accumulated)
	if len(in.History) > 0 {
		user.WriteString("\nRecent conversation:\n")
		for _, line := range in.History {
			user.WriteString(line.Role)
			user.WriteString(": ")
			user.WriteString(line.Text)
			user.WriteString("\n")
		}
	}
	user.WriteString("\nLatest message: ")
	user.WriteString(in.Text)

	return []*schema.Message{
		schema.SystemMessage(instructions.String()),
		schema.UserMessage(user.String()),
	}, nil
}

func extractToolArguments(msg *schema.Message) string {
	for _, call := range msg.ToolCalls {
		if strings.EqualFold(call.Function.Name, extractorToolName) {
			return strings.TrimSpace(call.Function.Arguments)
		}
	}
	return ""
}

func trimJSONBlock(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func tail(history []HistoryLine, n int) []HistoryLine {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func buildDeltaTool() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: extractorToolName,
		Desc: "Submit the shopping intent fields stated in the latest message",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"category":     {Type: schema.String, Desc: "product category, lower case"},
			"subcategory":  {Type: schema.String, Desc: "narrower product type"},
			"occasion":     {Type: schema.String, Desc: "event or purpose"},
			"style":        {Type: schema.String, Desc: "desired look or feel"},
			"brand":        {Type: schema.String, Desc: "requested brand"},
			"gender":       {Type: schema.String, Desc: "men, women or unisex", Enum: []string{"men", "women", "unisex"}},
			"size":         {Type: schema.String, Desc: "requested size, e.g. M or 42"},
			"budget_min":   {Type: schema.Number, Desc: "lower price bound, positive"},
			"budget_max":   {Type: schema.Number, Desc: "upper price bound, positive"},
			"location":     {Type: schema.String, Desc: "single travel destination"},
			"travel_dates": {Type: schema.String, Desc: "dates for the single destination as written, e.g. 'next weekend' or 'June 1-5'"},
			"trip_segments": {
				Type: schema.Array,
				Desc: "stops of a multi-destination trip in travel order",
				ElemInfo: &schema.ParameterInfo{
					Type: schema.Object,
					SubParams: map[string]*schema.ParameterInfo{
						"destination": {Type: schema.String, Desc: "city or region", Required: true},
						"start_date":  {Type: schema.String, Desc: "first day as written by the shopper", Required: true},
						"end_date":    {Type: schema.String, Desc: "last day as written by the shopper"},
					},
				},
			},
		}),
	}
}

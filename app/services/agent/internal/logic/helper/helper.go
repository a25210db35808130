package helper

import (
	"encoding/json"
	"errors"
	"time"

	"TripShopper/app/common/consts/errno"
	"TripShopper/app/dal/conversation"
	"TripShopper/app/services/agent/internal/agent/contextagg"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/agent/orchestrator"
	"TripShopper/app/services/agent/internal/agent/session"
	"TripShopper/app/services/agent/internal/agent/thinking"
	"TripShopper/app/services/agent/internal/provider/catalog"
	"TripShopper/app/services/agent/internal/provider/environment"
	"TripShopper/app/services/agent/internal/types"

	xerrors "github.com/zeromicro/x/errors"
)

// ToCodeError maps orchestrator errors onto API codes. Unknown errors are
// reported as internal without their text.
func ToCodeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, orchestrator.ErrEmptyMessage):
		return xerrors.New(errno.EmptyMessage, "message must not be empty")
	case errors.Is(err, orchestrator.ErrMissingSession):
		return xerrors.New(errno.MissingSession, "session_id is required")
	case errors.Is(err, orchestrator.ErrSessionBusy):
		return xerrors.New(errno.SessionUnavailable, "session is busy, please retry")
	default:
		return xerrors.New(errno.InternalError, "internal error")
	}
}

func ToChatResponse(res *orchestrator.TurnResult) *types.ChatResponse {
	if res == nil {
		return nil
	}
	return &types.ChatResponse{
		SessionId:           res.SessionID,
		Response:            res.Response,
		Products:            ToProducts(res.Products),
		Context:             ToContext(res.Context),
		UpdatedIntent:       ToIntent(res.UpdatedIntent),
		ClarificationNeeded: res.ClarificationNeeded,
		Suggestions:         nonNil(res.Suggestions),
		AgentThinking:       ToThinking(res.Thinking),
	}
}

func ToProducts(items []catalog.Product) []types.Product {
	out := make([]types.Product, 0, len(items))
	for _, p := range items {
		out = append(out, types.Product{
			Id:          p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			Category:    p.Category,
			Subcategory: p.Subcategory,
			Price:       p.Price,
			Description: p.Description,
			Rating:      p.Rating,
			ImageUrl:    p.ImageURL,
			Colors:      p.Colors,
			Sizes:       p.Sizes,
			Gender:      p.Gender,
			InStock:     p.InStock,
		})
	}
	return out
}

func ToIntent(in intent.Intent) types.Intent {
	out := types.Intent{
		Category:    in.Category,
		Subcategory: in.Subcategory,
		Occasion:    in.Occasion,
		Style:       in.Style,
		Brand:       in.Brand,
		Gender:      in.Gender,
		Size:        in.Size,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Location:    in.Location,
	}
	if in.TravelDates != nil {
		out.TravelStart = in.TravelDates.Start.String()
		out.TravelEnd = in.TravelDates.End.String()
	}
	for _, seg := range in.TripSegments {
		out.TripSegments = append(out.TripSegments, types.TripSegment{
			Destination: seg.Destination,
			StartDate:   seg.StartDate.String(),
			EndDate:     seg.EndDate.String(),
		})
	}
	return out
}

func ToContext(b *contextagg.Bundle) *types.Context {
	if b == nil {
		return nil
	}
	out := &types.Context{
		CustomerId:    b.CustomerID,
		ProfileStatus: string(b.ProfileStatus),
		Environment:   []types.Environmental{},
		BuiltAt:       formatTime(b.BuiltAt),
	}
	if b.Profile != nil {
		out.CustomerName = b.Profile.Name
	}
	env := b.Environmental
	if env == nil {
		return out
	}
	out.Kind = string(env.Kind)
	switch env.Kind {
	case contextagg.KindSingle:
		if env.Single != nil {
			out.Environment = append(out.Environment, toEnvironmental(*env.Single))
		}
	case contextagg.KindSegments:
		for _, seg := range env.Segments {
			item := toEnvironmental(seg.Reading)
			item.Destination = seg.Segment.Destination
			item.StartDate = seg.Segment.StartDate.String()
			item.EndDate = seg.Segment.EndDate.String()
			out.Environment = append(out.Environment, item)
		}
	}
	return out
}

func toEnvironmental(r contextagg.Reading) types.Environmental {
	out := types.Environmental{
		Location:      r.Location,
		Date:          r.Date,
		Weather:       toWeather(r.Weather),
		WeatherStatus: string(r.WeatherStatus),
		Trends:        nonNil(r.Trends),
		TrendsStatus:  string(r.TrendsStatus),
		Events:        toEvents(r.Events),
		EventsStatus:  string(r.EventsStatus),
	}
	return out
}

func toWeather(w *environment.Weather) *types.Weather {
	if w == nil {
		return nil
	}
	return &types.Weather{
		Location:        w.Location,
		Date:            w.Date,
		TemperatureC:    w.TemperatureC,
		PrecipitationMm: w.PrecipitationMM,
		Description:     w.Description,
		Source:          w.Source,
	}
}

func toEvents(events []environment.Event) []types.Event {
	out := make([]types.Event, 0, len(events))
	for _, e := range events {
		out = append(out, types.Event{
			Title:            e.Title,
			Type:             e.Type,
			Start:            e.Start,
			Venue:            e.Venue,
			Url:              e.URL,
			WeatherSensitive: e.WeatherSensitive,
		})
	}
	return out
}

func ToThinking(steps []thinking.Step) []types.ThinkingStep {
	out := make([]types.ThinkingStep, 0, len(steps))
	for _, s := range steps {
		out = append(out, types.ThinkingStep{
			Agent:     s.Agent,
			Action:    s.Action,
			Details:   s.Details,
			Timestamp: formatTime(s.Timestamp),
		})
	}
	return out
}

func ToConversation(s *session.Session) *types.ConversationResponse {
	if s == nil {
		return nil
	}
	out := &types.ConversationResponse{
		SessionId:   s.ID,
		Turns:       make([]types.Turn, 0, len(s.Turns)),
		Intent:      ToIntent(s.Intent),
		LastContext: ToContext(s.LastContext),
		CreatedAt:   formatTime(s.CreatedAt),
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
	for _, t := range s.Turns {
		out.Turns = append(out.Turns, types.Turn{
			Role:      string(t.Role),
			Text:      t.Text,
			Timestamp: formatTime(t.Timestamp),
		})
	}
	return out
}

func ToArchivedTurns(rows []*conversation.ConversationTurns) []types.ArchivedTurn {
	out := make([]types.ArchivedTurn, 0, len(rows))
	for _, row := range rows {
		var ids []string
		if row.ProductIds != "" {
			// rows are written by the archive worker; a bad column only loses the ids
			_ = json.Unmarshal([]byte(row.ProductIds), &ids)
		}
		out = append(out, types.ArchivedTurn{
			TurnIndex:     row.TurnIndex,
			UserText:      row.UserText,
			AssistantText: row.AssistantText,
			Outcome:       row.Outcome,
			ProductIds:    nonNil(ids),
			CreatedAt:     formatTime(row.CreatedAt),
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

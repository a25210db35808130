package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Generate runs a free-text completion bounded by timeout and returns the
// trimmed answer. An empty answer is reported as an error.
func Generate(ctx context.Context, m model.BaseChatModel, timeout time.Duration, system, user string) (string, error) {
	if m == nil {
		return "", fmt.Errorf("chat model unavailable")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := m.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	})
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", fmt.Errorf("empty model response")
	}
	answer := strings.TrimSpace(out.Content)
	if answer == "" {
		return "", fmt.Errorf("empty model response")
	}
	return answer, nil
}

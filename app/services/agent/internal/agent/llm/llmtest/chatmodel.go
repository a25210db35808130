// Package llmtest provides a scripted chat model for tests.
package llmtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type Responder func(msgs []*schema.Message) (*schema.Message, error)

// ChatModel answers every Generate call through Respond.
type ChatModel struct {
	Respond Responder

	mu    sync.Mutex
	calls int
	tools []*schema.ToolInfo
}

func New(respond Responder) *ChatModel {
	return &ChatModel{Respond: respond}
}

func (m *ChatModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls++
	respond := m.Respond
	m.mu.Unlock()

	if respond == nil {
		return nil, errors.New("no responder configured")
	}
	return respond(in)
}

func (m *ChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.mu.Lock()
	m.tools = tools
	m.mu.Unlock()
	return m, nil
}

func (m *ChatModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func ToolCall(name, arguments string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{{
		ID:       "call-1",
		Type:     "function",
		Function: schema.FunctionCall{Name: name, Arguments: arguments},
	}})
}

func Text(content string) *schema.Message {
	return schema.AssistantMessage(content, nil)
}

func SystemText(msgs []*schema.Message) string {
	for _, m := range msgs {
		if m.Role == schema.System {
			return m.Content
		}
	}
	return ""
}

// UserText returns the last user message.
func UserText(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == schema.User {
			return msgs[i].Content
		}
	}
	return ""
}

// LatestMessage returns the text after the "Latest message: " marker of an
// extraction prompt.
func LatestMessage(msgs []*schema.Message) string {
	user := UserText(msgs)
	if idx := strings.LastIndex(user, "Latest message: "); idx >= 0 {
		return user[idx+len("Latest message: "):]
	}
	return user
}

package advisor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-compass/internal/prompts"
	"github.com/jonathan/career-compass/internal/shaping"
	"github.com/jonathan/career-compass/internal/storage"
	"github.com/jonathan/career-compass/internal/types"
)

// SendMessage answers a chat message and appends both messages to the conversation.
// Model failures become an apology bot message rather than an error.
func (a *Advisor) SendMessage(ctx context.Context, owner, conversationID, text string) (types.ChatExchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.ChatExchange{}, &ValidationError{Field: "message", Message: "must not be empty"}
	}
	if conversationID == "" {
		conversationID = "default"
	}

	userMsg := types.ChatMessage{
		ID:        a.newID(),
		Type:      types.MessageUser,
		Content:   text,
		Timestamp: a.now(),
	}
	content, metadata := a.reply(ctx, text)

	key := storage.ChatKey(conversationID)
	unlock := a.locks.Lock(owner, key)
	defer unlock()

	history, err := a.ChatHistory(ctx, owner, conversationID)
	if err != nil {
		return types.ChatExchange{}, err
	}
	history = types.AppendMessage(history, userMsg)
	userMsg = history[len(history)-1]
	history = types.AppendMessage(history, types.ChatMessage{
		ID:        a.newID(),
		Type:      types.MessageBot,
		Content:   content,
		Timestamp: a.now(),
		Metadata:  metadata,
	})
	botMsg := history[len(history)-1]

	if err := a.store.Set(ctx, owner, key, history); err != nil {
		return types.ChatExchange{}, fmt.Errorf("failed to save chat history: %w", err)
	}

	return types.ChatExchange{
		ConversationID: conversationID,
		UserMessage:    userMsg,
		BotMessage:     botMsg,
	}, nil
}

func (a *Advisor) reply(ctx context.Context, text string) (string, map[string]any) {
	prompt, err := systemPrompt(prompts.KeyChat, nil, nil)
	if err != nil {
		a.logger.Error("chat prompt unavailable", zap.Error(err))
		return shaping.ChatFallback, map[string]any{"source": string(types.SourceFallback)}
	}

	raw, err := a.complete(ctx, shaping.DomainChat, prompt, text)
	if err != nil {
		return shaping.ChatFallback, map[string]any{"source": string(types.SourceFallback)}
	}

	shaped := a.shaper.Chat(raw)
	return shaped.Value, map[string]any{
		"source": string(shaped.Source),
		"model":  a.client.Model(),
	}
}

// ChatHistory returns the messages of a conversation in order.
func (a *Advisor) ChatHistory(ctx context.Context, owner, conversationID string) ([]types.ChatMessage, error) {
	history := []types.ChatMessage{}
	if _, err := a.store.Get(ctx, owner, storage.ChatKey(conversationID), &history); err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	if history == nil {
		history = []types.ChatMessage{}
	}
	return history, nil
}

// ClearChatHistory deletes a conversation.
func (a *Advisor) ClearChatHistory(ctx context.Context, owner, conversationID string) error {
	key := storage.ChatKey(conversationID)
	unlock := a.locks.Lock(owner, key)
	defer unlock()

	if err := a.store.Remove(ctx, owner, key); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}

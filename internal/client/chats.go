package client

import (
	"context"
	"net/http"
	"net/url"
)

// ChatService covers /api/chats.
type ChatService struct {
	c *Client
}

func (s *ChatService) List(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	if err := s.c.do(ctx, http.MethodGet, "/api/chats", nil, nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (s *ChatService) Create(ctx context.Context, in ChatCreate) (*Chat, error) {
	var chat Chat
	if err := s.c.do(ctx, http.MethodPost, "/api/chats", nil, in, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *ChatService) Update(ctx context.Context, id string, upd ChatUpdate) (*Chat, error) {
	var chat Chat
	if err := s.c.do(ctx, http.MethodPatch, "/api/chats/"+url.PathEscape(id), nil, upd, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// CreateWithUser opens (or reuses) a chat with another registered user.
func (s *ChatService) CreateWithUser(ctx context.Context, userID string) (*Chat, error) {
	var chat Chat
	if err := s.c.do(ctx, http.MethodPost, "/api/chats/with-user/"+url.PathEscape(userID), nil, nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// MessageService covers /api/messages.
type MessageService struct {
	c *Client
}

// List returns the messages of one chat, oldest first.
func (s *MessageService) List(ctx context.Context, chatID string) ([]Message, error) {
	q := url.Values{}
	if chatID != "" {
		q.Set("chat_id", chatID)
	}
	var msgs []Message
	if err := s.c.do(ctx, http.MethodGet, "/api/messages", q, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *MessageService) Create(ctx context.Context, in MessageCreate) (*Message, error) {
	var msg Message
	if err := s.c.do(ctx, http.MethodPost, "/api/messages", nil, in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

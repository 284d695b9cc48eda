package outbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/sentinel/internal/bus"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/query"
	"go.uber.org/zap"
)

var (
	// ErrEmptyMessage is returned for blank message text.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNoChat is returned when no chat is selected.
	ErrNoChat = errors.New("no chat selected")
	// ErrChatUpdate wraps a failed chat-summary update. The message itself was sent.
	ErrChatUpdate = errors.New("chat summary not updated")
)

// DefaultSenderName is used when the sender has no full name.
const DefaultSenderName = "Вы"

// MessageCreator posts chat messages.
type MessageCreator interface {
	Create(ctx context.Context, in client.MessageCreate) (*client.Message, error)
}

// ChatUpdater patches chat summaries.
type ChatUpdater interface {
	Update(ctx context.Context, id string, upd client.ChatUpdate) (*client.Chat, error)
}

// Uploader stores attachments.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*client.FileRef, error)
}

// Outgoing is a message waiting to be delivered.
type Outgoing struct {
	ID         string
	ChatID     string
	SenderName string
	Text       string
	// Attachment is a local file path uploaded before the message is created.
	Attachment string
	QueuedAt   time.Time
}

// Sender delivers outgoing messages one at a time: optional upload, create
// the message, then update the chat summary. The two writes are not a
// transaction; a failed summary update leaves the message in place.
type Sender struct {
	messages MessageCreator
	chats    ChatUpdater
	uploader Uploader
	cache    *query.Cache
	bus      *bus.Bus
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time

	queue  chan Outgoing
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	pending []Outgoing
}

// NewSender creates a sender. uploader and cache may be nil.
func NewSender(messages MessageCreator, chats ChatUpdater, uploader Uploader, cache *query.Cache, b *bus.Bus, logger *zap.Logger, loc *time.Location) *Sender {
	if loc == nil {
		loc = time.Local
	}
	return &Sender{
		messages: messages,
		chats:    chats,
		uploader: uploader,
		cache:    cache,
		bus:      b,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
		queue:    make(chan Outgoing, 64),
	}
}

// NewOutgoing validates and stamps a message for delivery.
func NewOutgoing(chatID, senderName, text, attachment string) (Outgoing, error) {
	if chatID == "" {
		return Outgoing{}, ErrNoChat
	}
	if strings.TrimSpace(text) == "" {
		return Outgoing{}, ErrEmptyMessage
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = DefaultSenderName
	}
	return Outgoing{
		ID:         uuid.NewString(),
		ChatID:     chatID,
		SenderName: senderName,
		Text:       text,
		Attachment: attachment,
		QueuedAt:   time.Now(),
	}, nil
}

// Start begins draining the queue.
func (s *Sender) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
}

// Stop stops the sender loop and waits for an in-flight delivery to finish.
func (s *Sender) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// Enqueue queues a message and returns its outgoing ID.
func (s *Sender) Enqueue(chatID, senderName, text, attachment string) (string, error) {
	out, err := NewOutgoing(chatID, senderName, text, attachment)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.pending = append(s.pending, out)
	s.mu.Unlock()

	select {
	case s.queue <- out:
		return out.ID, nil
	default:
		s.drop(out.ID)
		return "", fmt.Errorf("outbox full")
	}
}

// Pending lists queued messages of a chat that are not delivered yet.
func (s *Sender) Pending(chatID string) []Outgoing {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Outgoing
	for _, o := range s.pending {
		if o.ChatID == chatID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Sender) drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.pending {
		if o.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

func (s *Sender) loop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case out := <-s.queue:
			_, _ = s.Deliver(ctx, out)
		case <-ctx.Done():
			return
		}
	}
}

// Deliver sends one message synchronously. A non-nil message with an error
// wrapping ErrChatUpdate means the message was created but the chat summary
// was not updated.
func (s *Sender) Deliver(ctx context.Context, out Outgoing) (*client.Message, error) {
	delivery := bus.Delivery{OutgoingID: out.ID, ChatID: out.ChatID}

	imageURL := ""
	if out.Attachment != "" {
		url, err := s.upload(ctx, out.Attachment)
		if err != nil {
			return nil, s.failed(delivery, err)
		}
		imageURL = url
	}

	msg, err := s.messages.Create(ctx, client.MessageCreate{
		ChatID:     out.ChatID,
		SenderName: out.SenderName,
		Text:       out.Text,
		IsOutgoing: true,
		ImageURL:   imageURL,
	})
	if err != nil {
		return nil, s.failed(delivery, err)
	}
	delivery.MessageID = msg.ID
	s.drop(out.ID)
	if s.cache != nil {
		s.cache.Invalidate(query.Messages(out.ChatID))
	}
	s.logger.Info("message sent", zap.String("outgoing_id", out.ID), zap.String("message_id", msg.ID))
	s.bus.Emit(bus.MessageSent, delivery)

	_, err = s.chats.Update(ctx, out.ChatID, client.ChatUpdate{
		LastMessage: client.Ptr(out.Text),
		Time:        client.Ptr(s.now().In(s.loc).Format("15:04")),
		UnreadCount: client.Ptr(0),
	})
	if err != nil {
		s.logger.Warn("chat summary update failed", zap.String("chat_id", out.ChatID), zap.Error(err))
		delivery.Err = err.Error()
		s.bus.Emit(bus.ChatUpdateFailed, delivery)
		return msg, fmt.Errorf("%w: %w", ErrChatUpdate, err)
	}
	if s.cache != nil {
		s.cache.Invalidate(query.KeyChats)
	}
	return msg, nil
}

func (s *Sender) upload(ctx context.Context, path string) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("attachments not supported")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()
	ref, err := s.uploader.Upload(ctx, path, f)
	if err != nil {
		return "", fmt.Errorf("upload attachment: %w", err)
	}
	return ref.FileURL, nil
}

func (s *Sender) failed(d bus.Delivery, err error) error {
	s.logger.Error("failed to send message", zap.String("outgoing_id", d.OutgoingID), zap.Error(err))
	d.Err = err.Error()
	s.drop(d.OutgoingID)
	s.bus.Emit(bus.MessageSendFailed, d)
	return err
}

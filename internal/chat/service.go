package chat

import (
	"context"
	"log"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation as the client keeps it.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Generator produces model text for a system instruction and conversation.
type Generator interface {
	Generate(ctx context.Context, system string, contents []Content) (string, error)
}

// Service answers shopper questions about the catalog. It keeps no state
// between calls; the caller sends the history it wants considered.
type Service struct {
	gen     Generator
	system  string
	timeout time.Duration
	logger  *log.Logger
	// Observe, when set, is told the outcome of every call.
	Observe func(outcome string, d time.Duration)
}

func NewService(gen Generator, system string, timeout time.Duration, logger *log.Logger) *Service {
	return &Service{gen: gen, system: system, timeout: timeout, logger: logger}
}

func (s *Service) Greeting() Message {
	return Message{Role: RoleModel, Text: Greeting}
}

// Recommend never fails: errors become OfflineReply and an empty answer
// becomes EmptyReply.
func (s *Service) Recommend(ctx context.Context, query string, history []Message) string {
	start := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	contents := toContents(history)
	contents = append(contents, Content{Role: string(RoleUser), Parts: []Part{{Text: query}}})

	text, err := s.gen.Generate(ctx, s.system, contents)
	switch {
	case err != nil:
		if s.logger != nil {
			s.logger.Printf("chat: model call failed: %v", err)
		}
		s.observe("error", start)
		return OfflineReply
	case strings.TrimSpace(text) == "":
		s.observe("empty", start)
		return EmptyReply
	default:
		s.observe("ok", start)
		return text
	}
}

func (s *Service) observe(outcome string, start time.Time) {
	if s.Observe != nil {
		s.Observe(outcome, time.Since(start))
	}
}

// toContents drops turns with an unknown role or no text.
func toContents(history []Message) []Content {
	out := make([]Content, 0, len(history)+1)
	for _, m := range history {
		role := Role(strings.ToLower(strings.TrimSpace(string(m.Role))))
		if role != RoleUser && role != RoleModel {
			continue
		}
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		out = append(out, Content{Role: string(role), Parts: []Part{{Text: m.Text}}})
	}
	return out
}

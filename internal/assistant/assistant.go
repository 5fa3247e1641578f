package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sozercan/dealer-assistant/internal/inventory"
	"github.com/sozercan/dealer-assistant/internal/llm"
	"github.com/sozercan/dealer-assistant/internal/session"
	"github.com/sozercan/dealer-assistant/internal/tools"
)

var ErrEmptyQuestion = errors.New("question cannot be empty")

// Searcher runs an inventory search. Failures are absorbed into an empty
// result.
type Searcher interface {
	Search(ctx context.Context, c inventory.Criteria) []inventory.Vehicle
}

// Answer is the reply to one question.
type Answer struct {
	Text      string
	SessionID string
}

type Assistant struct {
	llmProvider llm.Provider
	searcher    Searcher
	sessions    *session.Store
}

func New(llmProvider llm.Provider, searcher Searcher, sessions *session.Store) *Assistant {
	return &Assistant{
		llmProvider: llmProvider,
		searcher:    searcher,
		sessions:    sessions,
	}
}

// Respond answers question within the conversation named by sessionID,
// starting a new conversation when sessionID is empty or unknown. Model and
// inventory failures are reported in Answer.Text, not as errors.
func (a *Assistant) Respond(ctx context.Context, question, sessionID string) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrEmptyQuestion
	}

	sess := a.sessions.Resolve(sessionID)
	slog.Info("Handling question", "session_id", sess.ID)
	startTime := time.Now()

	history := sess.Append(session.Message{Role: session.RoleUser, Content: question})
	text := a.respond(ctx, sess, history)

	slog.Info("Question answered", "session_id", sess.ID, "duration", time.Since(startTime))
	return Answer{Text: text, SessionID: sess.ID}, nil
}

func (a *Assistant) respond(ctx context.Context, sess *session.Session, history []session.Message) string {
	action, err := a.nextAction(ctx, history)
	if err != nil {
		slog.Error("Failed to get next action", "session_id", sess.ID, "error", err)
		return fmt.Sprintf(errorReply, err)
	}

	switch act := action.(type) {
	case Search:
		return a.handleSearch(ctx, sess, act)
	case Reply:
		return a.handleReply(sess, act)
	default:
		slog.Error("Unknown action", "action", fmt.Sprintf("%T", action))
		return fallbackReply
	}
}

// nextAction asks the model what to do with the conversation so far. No
// session lock is held here.
func (a *Assistant) nextAction(ctx context.Context, history []session.Message) (Action, error) {
	resp, err := a.llmProvider.Chat(ctx, SystemPrompt, history, llm.WithTools(tools.Definitions()...))
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}
	slog.Debug("LLM responded", "tool_calls", len(resp.ToolCalls), "tokens", resp.Usage.TotalTokens)
	return decide(resp)
}

// handleSearch renders search results. The listing is not recorded in the
// session history, only direct replies are.
func (a *Assistant) handleSearch(ctx context.Context, sess *session.Session, s Search) string {
	slog.Info("Searching inventory",
		"session_id", sess.ID,
		"make", s.Criteria.Make,
		"model", s.Criteria.Model,
		"year", s.Criteria.Year,
		"max_price", s.Criteria.MaxPrice,
		"max_mileage", s.Criteria.MaxMileage,
		"limit", s.Criteria.Limit,
	)

	cars := a.searcher.Search(ctx, s.Criteria)
	if len(cars) == 0 {
		return noResultsReply
	}

	listing, err := renderListing(cars)
	if err != nil {
		slog.Error("Failed to render listing", "error", err)
		return fmt.Sprintf(errorReply, err)
	}
	return listing
}

func (a *Assistant) handleReply(sess *session.Session, r Reply) string {
	text := r.Text
	if text == "" {
		text = fallbackReply
	}
	sess.Append(session.Message{Role: session.RoleAssistant, Content: text})
	return text
}

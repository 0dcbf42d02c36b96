package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vodcoach/pkg/prompts"
)

const unreadableReply = "Yo, what are we doing? Couldn't get a good read on that clip!"

// Analyzer runs a free-form prompt against an indexed video.
type Analyzer interface {
	Analyze(ctx context.Context, videoID, prompt string) (string, error)
}

// Manager renders the persona prompt with session history, queries the
// video index and records the exchange.
type Manager struct {
	analyzer Analyzer
	sessions *SessionStore
	prompts  *prompts.Prompts
}

func NewManager(analyzer Analyzer, sessions *SessionStore, p *prompts.Prompts) *Manager {
	return &Manager{
		analyzer: analyzer,
		sessions: sessions,
		prompts:  p,
	}
}

// Send asks the coach a question about a video and returns the reply and
// the full session history including the new exchange.
func (m *Manager) Send(ctx context.Context, videoID, message, summary string) (string, []Exchange, error) {
	history := m.sessions.History(videoID)

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return "", nil, fmt.Errorf("encode history: %w", err)
	}

	prompt, err := m.prompts.RenderChat(prompts.ChatParams{
		Summary: summary,
		History: string(historyJSON),
		Message: message,
	})
	if err != nil {
		return "", nil, fmt.Errorf("render prompt: %w", err)
	}

	raw, err := m.analyzer.Analyze(ctx, videoID, prompt)
	if err != nil {
		return "", nil, err
	}

	reply := normalizeReply(raw)
	m.sessions.Append(videoID, Exchange{User: message, AI: reply})

	return reply, m.sessions.History(videoID), nil
}

// normalizeReply flattens model output into one conversational line:
// markdown headings and list items are dropped, the rest joined with
// spaces. An answer with nothing conversational left gets a stock line.
func normalizeReply(raw string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			continue
		}
		kept = append(kept, line)
	}

	if len(kept) == 0 {
		return unreadableReply
	}
	return strings.Join(kept, " ")
}

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/fesaone/fesabot/internal/config"
	"github.com/fesaone/fesabot/internal/session"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

// mockLLM replays scripted responses; each call consumes one. A test that
// triggers more calls than scripted fails loudly.
type mockLLM struct {
	t        *testing.T
	calls    []openai.ChatCompletionResponse
	requests []openai.ChatCompletionRequest
	err      error
}

func (m *mockLLM) CreateChatCompletion(ctx context.Context, r openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.requests = append(m.requests, r)
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	if len(m.calls) == 0 {
		m.t.Fatalf("mockLLM: unexpected call for model %s", r.Model)
	}
	resp := m.calls[0]
	m.calls = m.calls[1:]
	return resp, nil
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			CompletionModel: "chat-model",
			ModerationModel: "guard-model",
		},
		Chat: config.ChatConfig{HistoryWindow: 10},
	}
}

func TestProcess_LocalHitBypassesRemote(t *testing.T) {
	// No scripted responses: any upstream call fails the test.
	mock := &mockLLM{t: t}
	a := New(mock, testConfig())
	sess := session.New()

	res, err := a.Process(context.Background(), sess, "siapa pembuat fesaone")
	require.NoError(t, err)
	require.Equal(t, SourceLocal, res.Source)
	require.Contains(t, res.Reply, "Fauzi Eka Suryana")
	require.Empty(t, mock.requests)
	require.Zero(t, sess.Len(), "local answers must not enter history")
}

func TestProcess_RemoteHappyPath(t *testing.T) {
	mock := &mockLLM{t: t, calls: []openai.ChatCompletionResponse{
		reply("safe"),
		reply("Quantum computing is..."),
	}}
	a := New(mock, testConfig())
	sess := session.New()

	res, err := a.Process(context.Background(), sess, "ceritakan tentang komputasi kuantum")
	require.NoError(t, err)
	require.Equal(t, SourceModel, res.Source)
	require.Equal(t, "Quantum computing is...", res.Reply)

	// Moderation first, then completion.
	require.Len(t, mock.requests, 2)
	require.Equal(t, "guard-model", mock.requests[0].Model)
	require.Equal(t, "chat-model", mock.requests[1].Model)

	// History grew by exactly the user/assistant pair.
	history := sess.History()
	require.Len(t, history, 2)
	require.Equal(t, session.Turn{Role: session.RoleUser, Content: "ceritakan tentang komputasi kuantum"}, history[0])
	require.Equal(t, session.Turn{Role: session.RoleAssistant, Content: "Quantum computing is..."}, history[1])
}

func TestProcess_RefusalSkipsCompletion(t *testing.T) {
	mock := &mockLLM{t: t, calls: []openai.ChatCompletionResponse{
		reply("unsafe\nS9"),
	}}
	a := New(mock, testConfig())
	sess := session.New()

	res, err := a.Process(context.Background(), sess, "lakukan sesuatu yang buruk")
	require.NoError(t, err)
	require.Equal(t, SourceRefusal, res.Source)
	require.Equal(t, refusalMessage, res.Reply)
	require.Len(t, mock.requests, 1, "completion must never be called after a block")
	require.Zero(t, sess.Len())
}

func TestProcess_GateFailureFailsOpen(t *testing.T) {
	// The moderation call errors; the pipeline proceeds to completion.
	mock := &mockLLM{t: t, err: errors.New("moderation backend down")}
	a := New(mock, testConfig())
	sess := session.New()

	// With a single shared error, completion fails too, so this lands on
	// the degraded path, proving the gate itself did not block.
	res, err := a.Process(context.Background(), sess, "ceritakan tentang komputasi kuantum")
	require.NoError(t, err)
	require.Equal(t, SourceError, res.Source)
	require.Equal(t, degradedMessage, res.Reply)
	require.Len(t, mock.requests, 2)
	require.Zero(t, sess.Len(), "failed completions must not touch history")
}

func TestProcess_HistoryWindowCapsUpstream(t *testing.T) {
	mock := &mockLLM{t: t, calls: []openai.ChatCompletionResponse{
		reply("safe"),
		reply("ok"),
	}}
	cfg := testConfig()
	cfg.Chat.HistoryWindow = 4
	a := New(mock, cfg)

	sess := session.New()
	for i := 0; i < 10; i++ {
		sess.Append(
			session.Turn{Role: session.RoleUser, Content: "q"},
			session.Turn{Role: session.RoleAssistant, Content: "a"},
		)
	}

	_, err := a.Process(context.Background(), sess, "pertanyaan baru")
	require.NoError(t, err)

	// system + 4 recent turns + new user message.
	require.Len(t, mock.requests[1].Messages, 6)
}

func TestProcess_BusySessionRejected(t *testing.T) {
	mock := &mockLLM{t: t}
	a := New(mock, testConfig())
	sess := session.New()
	require.NoError(t, sess.TryAcquire())

	_, err := a.Process(context.Background(), sess, "halo dunia ini")
	require.ErrorIs(t, err, session.ErrBusy)
}

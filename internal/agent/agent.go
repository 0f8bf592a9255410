// Package agent sequences one chat submission: local knowledge lookup,
// then moderation, then the completion relay. The flow is modeled as a
// finite state machine so each stage and its exits stay explicit.
package agent

import (
	"context"
	"time"

	"github.com/fesaone/fesabot/internal/config"
	"github.com/fesaone/fesabot/internal/knowledge"
	"github.com/fesaone/fesabot/internal/llm"
	"github.com/fesaone/fesabot/internal/logger"
	"github.com/fesaone/fesabot/internal/session"

	"github.com/qmuntal/stateless" // FSM library
)

// FSM States
type FSMState stateless.State

var (
	StateIdle           FSMState = "Idle"
	StateLocalLookup    FSMState = "LocalLookup"
	StateSafetyCheck    FSMState = "SafetyCheck"
	StateCompleting     FSMState = "Completing"
	StateAnsweredLocal  FSMState = "AnsweredLocal"  // Terminal: canned answer served
	StateAnsweredRemote FSMState = "AnsweredRemote" // Terminal: model answer served
	StateRefused        FSMState = "Refused"        // Terminal: moderation rejected
	StateFailed         FSMState = "Failed"         // Terminal: completion failed
)

// FSM Triggers
type FSMTrigger stateless.Trigger

var (
	TriggerSubmit              FSMTrigger = "Submit"
	TriggerLocalHit            FSMTrigger = "LocalHit"
	TriggerLocalMiss           FSMTrigger = "LocalMiss"
	TriggerMessageAllowed      FSMTrigger = "MessageAllowed"
	TriggerMessageBlocked      FSMTrigger = "MessageBlocked"
	TriggerCompletionSucceeded FSMTrigger = "CompletionSucceeded"
	TriggerCompletionFailed    FSMTrigger = "CompletionFailed"
)

// Source says which stage produced the reply.
type Source string

const (
	SourceLocal   Source = "local"
	SourceModel   Source = "model"
	SourceRefusal Source = "refusal"
	SourceError   Source = "error"
)

// Fixed user-facing messages. Raw upstream errors never reach the client;
// these strings are all it ever sees on the refusal and failure paths.
const (
	refusalMessage  = "Maaf, permintaan Anda tidak dapat diproses karena melanggar kebijakan keamanan sistem."
	degradedMessage = "Maaf, terjadi gangguan koneksi pada server. Silakan coba lagi."
)

// Result is what one submission produced.
type Result struct {
	Reply  string
	Source Source
}

// Agent orchestrates the chat pipeline.
type Agent struct {
	table *knowledge.Table
	gate  *llm.SafetyGate
	relay *llm.Relay

	historyWindow int
	localDelay    time.Duration
}

// New creates an agent. The same upstream client backs both the moderation
// gate and the completion relay; tests inject a mock here.
func New(client llm.Client, cfg *config.Config) *Agent {
	return &Agent{
		table:         knowledge.Load(cfg.Knowledge),
		gate:          llm.NewSafetyGate(client, cfg.LLM.ModerationModel),
		relay:         llm.NewRelay(client, cfg.LLM.CompletionModel),
		historyWindow: cfg.Chat.HistoryWindow,
		localDelay:    cfg.Chat.LocalDelay,
	}
}

// Process runs one submission through the pipeline and returns the reply.
// It claims the session's busy flag for the duration; a concurrent call for
// the same session gets session.ErrBusy. History is appended only on a
// successful remote completion: local answers are pre-vetted canned text
// that never enters the conversational context, and refusals and failures
// leave the session untouched.
func (a *Agent) Process(ctx context.Context, sess *session.Session, text string) (Result, error) {
	if err := sess.TryAcquire(); err != nil {
		return Result{}, err
	}
	defer sess.Release()

	type fsmContext struct {
		reply   string
		source  Source
		lastErr error
	}
	fc := &fsmContext{}

	fsm := stateless.NewStateMachine(StateIdle)

	fsm.Configure(StateIdle).
		Permit(TriggerSubmit, StateLocalLookup)

	// State: LocalLookup
	// Action: score the message against the knowledge table.
	fsm.Configure(StateLocalLookup).
		OnEntry(func(ctx context.Context, _ ...any) error {
			if resp, ok := a.table.Lookup(text); ok {
				logger.L.Debug("local knowledge hit")
				fc.reply = resp
				fc.source = SourceLocal
				return fsm.FireCtx(ctx, TriggerLocalHit)
			}
			return fsm.FireCtx(ctx, TriggerLocalMiss)
		}).
		Permit(TriggerLocalHit, StateAnsweredLocal).
		Permit(TriggerLocalMiss, StateSafetyCheck)

	// State: AnsweredLocal (terminal)
	// A short artificial pause keeps canned answers from feeling
	// instantaneous next to the remote path.
	fsm.Configure(StateAnsweredLocal).
		OnEntry(func(ctx context.Context, _ ...any) error {
			if a.localDelay > 0 {
				select {
				case <-time.After(a.localDelay):
				case <-ctx.Done():
				}
			}
			return nil
		})

	// State: SafetyCheck
	// Action: ask the moderation model; the gate itself fails open.
	fsm.Configure(StateSafetyCheck).
		OnEntry(func(ctx context.Context, _ ...any) error {
			if a.gate.Check(ctx, text) {
				return fsm.FireCtx(ctx, TriggerMessageAllowed)
			}
			return fsm.FireCtx(ctx, TriggerMessageBlocked)
		}).
		Permit(TriggerMessageAllowed, StateCompleting).
		Permit(TriggerMessageBlocked, StateRefused)

	// State: Refused (terminal)
	fsm.Configure(StateRefused).
		OnEntry(func(ctx context.Context, _ ...any) error {
			logger.L.Info("message blocked by safety gate")
			fc.reply = refusalMessage
			fc.source = SourceRefusal
			return nil
		})

	// State: Completing
	// Action: forward message + bounded history to the completion model.
	fsm.Configure(StateCompleting).
		OnEntry(func(ctx context.Context, _ ...any) error {
			reply, err := a.relay.Complete(ctx, text, sess.Recent(a.historyWindow))
			if err != nil {
				fc.lastErr = err
				return fsm.FireCtx(ctx, TriggerCompletionFailed)
			}
			fc.reply = reply
			return fsm.FireCtx(ctx, TriggerCompletionSucceeded)
		}).
		Permit(TriggerCompletionSucceeded, StateAnsweredRemote).
		Permit(TriggerCompletionFailed, StateFailed)

	// State: AnsweredRemote (terminal)
	// The completed turn pair enters the session history here and only here.
	fsm.Configure(StateAnsweredRemote).
		OnEntry(func(ctx context.Context, _ ...any) error {
			fc.source = SourceModel
			sess.Append(
				session.Turn{Role: session.RoleUser, Content: text},
				session.Turn{Role: session.RoleAssistant, Content: fc.reply},
			)
			return nil
		})

	// State: Failed (terminal)
	fsm.Configure(StateFailed).
		OnEntry(func(ctx context.Context, _ ...any) error {
			logger.L.Error("completion relay failed", "error", fc.lastErr)
			fc.reply = degradedMessage
			fc.source = SourceError
			return nil
		})

	// Firing Submit enters LocalLookup; the FSM then cascades synchronously
	// through the FireCtx calls in the entry actions until a terminal state.
	if err := fsm.FireCtx(ctx, TriggerSubmit); err != nil {
		logger.L.Error("pipeline state machine failed", "error", err)
		return Result{Reply: degradedMessage, Source: SourceError}, nil
	}

	return Result{Reply: fc.reply, Source: fc.source}, nil
}

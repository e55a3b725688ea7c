// Package compare fans one prompt out to several models in parallel and
// folds the settled responses back into a comparison session.
package compare

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/quorumchat/quorum/pkg/llm"
	"github.com/quorumchat/quorum/pkg/session"
)

// MaxLanes bounds how many models one turn may fan out to.
const MaxLanes = 4

// Streamer streams one model's response, invoking onDelta per text delta.
// Satisfied by relayclient.Client.
type Streamer interface {
	Stream(ctx context.Context, providerName string, req *llm.ChatRequest, onDelta func(delta string)) (string, error)
}

// DeltaFunc receives live deltas tagged with the producing model, for UI
// rendering while lanes stream.
type DeltaFunc func(model, delta string)

// Orchestrator runs fan-out comparison turns.
type Orchestrator struct {
	streamer Streamer
	store    session.Store
	logger   *zap.Logger

	// OnDelta is optional; nil means deltas are only accumulated.
	OnDelta DeltaFunc
}

// NewOrchestrator returns an Orchestrator persisting turns to store.
func NewOrchestrator(streamer Streamer, store session.Store, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		streamer: streamer,
		store:    store,
		logger:   logger,
	}
}

// Run executes one comparison turn: the prompt goes to every model in
// sess.Models on its own lane, lanes stream concurrently, and once all have
// settled the turn is folded into the session and saved. A lane failure
// never aborts the turn; the failed lane records a placeholder response.
func (o *Orchestrator) Run(ctx context.Context, sess *session.Session, prompt string, cfg llm.GenerationConfig) ([]*Lane, error) {
	if sess.Type != session.TypeCompare {
		return nil, fmt.Errorf("session %s is not a comparison session", sess.ID)
	}
	if len(sess.Models) == 0 {
		return nil, errors.New("no models selected")
	}
	if len(sess.Models) > MaxLanes {
		return nil, fmt.Errorf("too many models: %d (max %d)", len(sess.Models), MaxLanes)
	}

	lanes := make([]*Lane, len(sess.Models))
	for i, model := range sess.Models {
		providerName := ""
		if info, ok := llm.ModelByID(model); ok {
			providerName = info.Provider
		}
		lanes[i] = NewLane(model, providerName)
	}

	var wg sync.WaitGroup
	for _, lane := range lanes {
		if lane.Provider() == "" {
			lane.Fail(fmt.Errorf("unknown model %q", lane.Model()))
			continue
		}

		req := &llm.ChatRequest{
			Model:        lane.Model(),
			Messages:     historyForModel(sess, lane.Model(), prompt),
			SystemPrompt: cfg.SystemPrompt,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
		}

		wg.Add(1)
		go func(lane *Lane) {
			defer wg.Done()
			o.runLane(ctx, lane, req)
		}(lane)
	}
	wg.Wait()

	// All lanes settled; fold the turn into the session and persist.
	userTurn := session.CompareTurn{
		Role:           llm.RoleUser,
		ContentByModel: make(map[string]string, len(lanes)),
	}
	assistantTurn := session.CompareTurn{
		Role:           llm.RoleAssistant,
		ContentByModel: make(map[string]string, len(lanes)),
	}
	for _, lane := range lanes {
		userTurn.ContentByModel[lane.Model()] = prompt
		assistantTurn.ContentByModel[lane.Model()] = lane.Text()
	}
	sess.CompareTurns = append(sess.CompareTurns, userTurn, assistantTurn)
	sess.RetitleFromPrompt(prompt)

	if err := o.store.Save(sess); err != nil {
		return lanes, fmt.Errorf("saving session: %w", err)
	}

	return lanes, nil
}

// runLane streams one lane to completion.
func (o *Orchestrator) runLane(ctx context.Context, lane *Lane, req *llm.ChatRequest) {
	text, err := o.streamer.Stream(ctx, lane.Provider(), req, func(delta string) {
		lane.ApplyDelta(delta)
		if o.OnDelta != nil {
			o.OnDelta(lane.Model(), delta)
		}
	})
	if err != nil {
		o.logger.Warn("lane failed",
			zap.String("model", lane.Model()),
			zap.String("provider", lane.Provider()),
			zap.Error(err),
		)
		lane.Fail(err)
		return
	}

	// A stream that ended without producing any text is a truncated or
	// broken upstream, not a valid response.
	if text == "" {
		lane.Fail(errors.New("stream ended without content"))
		return
	}

	lane.Complete()
}

// historyForModel rebuilds the model's own conversation from the session's
// comparison turns and appends the new prompt. Each model only ever sees
// its own prior responses.
func historyForModel(sess *session.Session, model, prompt string) []llm.Message {
	messages := make([]llm.Message, 0, len(sess.CompareTurns)+1)
	for _, turn := range sess.CompareTurns {
		content, ok := turn.ContentByModel[model]
		if !ok {
			continue
		}
		messages = append(messages, llm.Message{Role: turn.Role, Content: content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})
	return messages
}

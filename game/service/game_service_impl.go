package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/gobblet/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.Named("service"),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s' (available: %s)", ErrConfigNotFound, configName, strings.Join(configIDs, ", "))
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.logger.Info("session created",
		zap.String("session", session.ID),
		zap.String("config", configID),
		zap.String("game", session.Engine.GameID()))

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, move engine.MoveRequest, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	step, moveEvents, moveErr := s.play(sess, move, 1)
	events = append(events, moveEvents...)

	state := sess.Engine.GetState()
	result := &MoveResult{
		Success:   moveErr == nil,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}
	if moveErr != nil {
		result.RejectionCode = RejectionCode(moveErr)
		result.Error = moveErr.Error()
	} else {
		result.Step = step
	}

	s.save(sessionID, "move")
	return result, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first
// rejection or when the game is won
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []engine.MoveRequest, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}
	result.StartSnapshot = sess.Engine.GetState().HexSnapshot

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game is over"
			result.StopReasonCode = RejectGameOver
			result.StoppedOnMove = i + 1
			break
		}

		step, events, moveErr := s.play(sess, move, i+1)
		result.Events = append(result.Events, events...)
		if moveErr != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d rejected: %v", i+1, moveErr)
			result.StopReasonCode = RejectionCode(moveErr)
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, *step)
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.EndSnapshot = state.HexSnapshot
	result.GameOver = state.GameOver
	result.Winner = state.Winner
	result.Message = state.Message
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = "victory"
	}

	s.save(sessionID, "bulk move")
	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset()
	s.logger.Info("game reset", zap.String("session", sessionID), zap.String("game", state.GameID))

	s.save(sessionID, "reset")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("config saved", zap.String("config", configName))
	return nil
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSessionNotFound, sessionID, err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// play applies one move and returns its step record and events. A non-nil
// error is a rejection; the board is unchanged.
func (s *gameServiceImpl) play(sess *Session, move engine.MoveRequest, idx int) (*StepInfo, []GameEvent, error) {
	color := sess.Engine.Turn()
	err := sess.Engine.Apply(move)
	now := time.Now()

	fields := []zap.Field{
		zap.String("session", sess.ID),
		zap.Stringer("move", move),
		zap.Stringer("turn", color),
	}

	if err != nil {
		s.logger.Info("move rejected", append(fields,
			zap.String("status", "rejected"),
			zap.String("code", RejectionCode(err)),
			zap.Error(err))...)
		return nil, []GameEvent{{
			Type:      EventRejected,
			Message:   err.Error(),
			Timestamp: now,
			Color:     &color,
			Position:  &move.To,
		}}, err
	}

	state := sess.Engine.GetState()
	last := sess.Engine.GetLastMove()
	step := &StepInfo{
		Idx:         idx,
		Color:       color,
		From:        last.From,
		Reserve:     last.Reserve,
		To:          last.To,
		Piece:       last.Piece,
		HexSnapshot: state.HexSnapshot,
		Victory:     state.GameOver,
	}

	s.logger.Info("move", append(fields,
		zap.String("status", "ok"),
		zap.String("snapshot", state.HexSnapshot))...)

	to := last.To
	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("%s moved %s", color, move),
		Timestamp: now,
		Color:     &color,
		Position:  &to,
	}}
	if state.GameOver && state.Winner != nil {
		winner := *state.Winner
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   state.Message,
			Timestamp: now,
			Color:     &winner,
		})
		s.logger.Info("game won", zap.String("session", sess.ID), zap.Stringer("winner", winner))
	}
	return step, events, nil
}

func (s *gameServiceImpl) save(sessionID, op string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session",
			zap.String("session", sessionID),
			zap.String("after", op),
			zap.Error(err))
	}
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

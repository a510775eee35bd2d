package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/klondike/game/engine"
	"k8s.io/klog/v2"
)

// gameServiceImpl implements the GameService interface. Every engine call
// happens under mu; engines are not safe for concurrent use. Methods that
// write session fields, LastAccessedAt included, hold mu exclusively.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
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

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// getSession looks up a session and wraps lookup failures with its ID
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess, nil
}

// save persists a session after a mutation. Failures are logged, not returned:
// the in-memory game is still authoritative.
func (s *gameServiceImpl) save(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		klog.Warningf("Failed to persist session %s after %s: %v", sessionID, after, err)
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed *uint64) (*SessionInfo, error) {
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
					return nil, fmt.Errorf("%w: '%s', available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s', use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate the ID
	sess, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	klog.Infof("Created session %s (config=%s seed=%d)", sess.ID, config.Name, sess.Seed)
	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information. It touches the access time,
// so it takes the write lock.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	klog.Infof("Deleted session %s", sessionID)
	return nil
}

// Move applies a single move. Malformed moves return engine.ErrInvalidMove;
// illegal ones return a result with Success false.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, move engine.Move) (*MoveResult, error) {
	if err := move.Validate(); err != nil {
		return nil, err
	}
	move.Action, _ = engine.ParseAction(string(move.Action))

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	before := sess.Engine.GetState()
	ok := sess.Engine.Apply(move)
	after := sess.Engine.GetState()

	moved, message, events := describeMove(sess.Config, move, ok, before, after)
	klog.V(1).Infof("[MOVE] session=%s %s ok=%t cards=%d", sessionID, move, ok, moved)

	if ok {
		s.save(sessionID, "move")
	}

	return &MoveResult{
		Success:    ok,
		Move:       move,
		GameState:  after,
		Message:    message,
		CardsMoved: moved,
		Events:     events,
	}, nil
}

// BulkMove applies moves in order and stops at the first illegal one. Every
// move is checked for well-formedness before any is applied.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []engine.Move) (*BulkMoveResult, error) {
	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	normalized := make([]engine.Move, len(moves))
	for i, m := range moves {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		m.Action, _ = engine.ParseAction(string(m.Action))
		normalized[i] = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	for i, m := range normalized {
		before := sess.Engine.GetState()
		ok := sess.Engine.Apply(m)
		after := sess.Engine.GetState()

		moved, message, events := describeMove(sess.Config, m, ok, before, after)
		result.Steps = append(result.Steps, StepInfo{
			Idx:        i + 1,
			Move:       m,
			Success:    ok,
			CardsMoved: moved,
			Message:    message,
		})
		result.Events = append(result.Events, events...)
		result.Message = message

		if !ok {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.StoppedReason = fmt.Sprintf("move %d rejected: %s", i+1, m)
			break
		}
		result.MovesExecuted++
	}

	result.GameState = sess.Engine.GetState()
	klog.V(1).Infof("[BULK] session=%s exec=%d/%d stopped_on=%d", sessionID, result.MovesExecuted, result.RequestedMoves, result.StoppedOnMove)

	if result.MovesExecuted > 0 {
		s.save(sessionID, "bulk moves")
	}

	return result, nil
}

// NewDeal replaces the session's game with a fresh deal. A nil seed picks a
// random one; the seed used is reported in the returned SessionInfo.
func (s *gameServiceImpl) NewDeal(ctx context.Context, sessionID string, seed *uint64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	dealSeed := engine.RandomSeed()
	if seed != nil {
		dealSeed = *seed
	}
	eng, err := engine.NewEngine(sess.Config, engine.NewShuffler(dealSeed))
	if err != nil {
		return nil, fmt.Errorf("failed to deal: %w", err)
	}
	sess.Engine = eng
	sess.Seed = dealSeed

	s.sessions.UpdateLastAccessed(sessionID)
	s.save(sessionID, "new deal")
	klog.Infof("New deal for session %s (seed=%d)", sessionID, dealSeed)

	return s.sessionInfo(sess, ""), nil
}

// GetGameState retrieves the current game state and touches the access time
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// Dump returns the diagnostic text dump of a session's table
func (s *gameServiceImpl) Dump(ctx context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return "", err
	}
	return sess.Engine.Dump(), nil
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
	klog.Infof("Saved config %s", configName)
	return nil
}

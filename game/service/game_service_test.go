package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, seed *uint64) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	dealSeed := uint64(1)
	if seed != nil {
		dealSeed = *seed
	}
	eng, err := engine.NewEngine(config, engine.NewShuffler(dealSeed))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		Seed:           dealSeed,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig, seed *uint64) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config, seed)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	defaultConfig := engine.DefaultConfig()

	easy := engine.DefaultConfig()
	easy.Name = "easy"
	easy.Description = "One card per draw"
	easy.DrawCount = 1

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"klondike": defaultConfig,
			"easy":     easy,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			DrawCount:   config.EffectiveDrawCount(),
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["klondike"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager()), sessions
}

func seed(v uint64) *uint64 {
	return &v
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    error
	}{
		{
			name:       "create with default config",
			configName: "",
			wantConfig: "klondike",
		},
		{
			name:       "create with specific config",
			configName: "easy",
			wantConfig: "easy",
		},
		{
			name:       "create with unknown config",
			configName: "nonexistent",
			wantErr:    service.ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.configName, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if info.ConfigName != tt.wantConfig {
				t.Errorf("Expected config %q, got %q", tt.wantConfig, info.ConfigName)
			}
			if err := engine.ValidateState(info.GameState); err != nil {
				t.Errorf("New session has an invalid table: %v", err)
			}
		})
	}
}

func TestGameService_CreateSessionWithSeed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.CreateSession(ctx, "", seed(42))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	b, err := svc.CreateSession(ctx, "", seed(42))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if a.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", a.Seed)
	}
	if a.GameState.Dump() != b.GameState.Dump() {
		t.Error("Expected identical deals for identical seeds")
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)

	info, err := svc.CreateSession(ctx, "", seed(7))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	result, err := svc.Move(ctx, info.ID, engine.Move{Action: "Draw"})
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if !result.Success || result.CardsMoved != 3 {
		t.Errorf("Expected a successful three-card draw, got %+v", result)
	}
	if result.Move.Action != engine.ActionDraw {
		t.Errorf("Expected normalized action, got %q", result.Move.Action)
	}
	if result.GameState.Waste.Len() != 3 {
		t.Errorf("Expected 3 waste cards, got %d", result.GameState.Waste.Len())
	}
	if !strings.Contains(result.Message, "Drew 3") {
		t.Errorf("Unexpected message %q", result.Message)
	}
	if sessions.saves == 0 {
		t.Error("Expected session to be saved after a successful move")
	}
}

func TestGameService_IllegalMoveIsNotAnError(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "", seed(7))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// A pile can never be moved onto itself
	result, err := svc.Move(ctx, info.ID, engine.Move{Action: engine.ActionTableauRun, Source: 3, From: 3, Target: 3})
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if result.Success {
		t.Error("Expected move to be rejected")
	}
	if result.Message != engine.DefaultConfig().Messages.IllegalMove {
		t.Errorf("Expected illegal move message, got %q", result.Message)
	}
	if result.GameState.Dump() != info.GameState.Dump() {
		t.Error("Rejected move changed the table")
	}
}

func TestGameService_MoveErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "", nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	_, err = svc.Move(ctx, info.ID, engine.Move{Action: engine.ActionWasteToFoundation, Target: 4})
	if !errors.Is(err, engine.ErrInvalidMove) {
		t.Errorf("Expected ErrInvalidMove, got %v", err)
	}

	_, err = svc.Move(ctx, info.ID, engine.Move{Action: "jump"})
	if !errors.Is(err, engine.ErrInvalidMove) {
		t.Errorf("Expected ErrInvalidMove, got %v", err)
	}

	_, err = svc.Move(ctx, "missing", engine.Move{Action: engine.ActionDraw})
	if !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_DrawUntilEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "", seed(3))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	for i := 0; i < 8; i++ {
		if _, err := svc.Move(ctx, info.ID, engine.Move{Action: engine.ActionDraw}); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}

	discard, err := svc.Move(ctx, info.ID, engine.Move{Action: engine.ActionDiscardWaste})
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if !discard.Success || discard.CardsMoved != engine.StockSizeAfterDeal {
		t.Errorf("Expected %d cards discarded, got %+v", engine.StockSizeAfterDeal, discard)
	}

	empty, err := svc.Move(ctx, info.ID, engine.Move{Action: engine.ActionDraw})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if empty.Success {
		t.Error("Expected draw with nothing left to fail")
	}
	if empty.Message != engine.DefaultConfig().Messages.StockEmpty {
		t.Errorf("Expected stock empty message, got %q", empty.Message)
	}
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "", seed(11))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	result, err := svc.BulkMove(ctx, info.ID, []engine.Move{
		{Action: engine.ActionDraw},
		{Action: engine.ActionDraw},
		{Action: engine.ActionTableauRun, Source: 0, From: 0, Target: 0},
		{Action: engine.ActionDraw},
	})
	if err != nil {
		t.Fatalf("BulkMove() error: %v", err)
	}

	if result.Success {
		t.Error("Expected bulk move to stop")
	}
	if result.MovesExecuted != 2 || result.StoppedOnMove != 3 {
		t.Errorf("Expected 2 executed and stop on move 3, got %d and %d", result.MovesExecuted, result.StoppedOnMove)
	}
	if len(result.Steps) != 3 || result.Steps[2].Success {
		t.Errorf("Expected 3 steps with the last one failed, got %+v", result.Steps)
	}
	if result.GameState.Waste.Len() != 6 {
		t.Errorf("Expected 6 waste cards, got %d", result.GameState.Waste.Len())
	}
}

func TestGameService_BulkMoveRejectsMalformedUpFront(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "", seed(11))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	_, err = svc.BulkMove(ctx, info.ID, []engine.Move{
		{Action: engine.ActionDraw},
		{Action: engine.ActionWasteToTableau, Target: 12},
	})
	if !errors.Is(err, engine.ErrInvalidMove) {
		t.Fatalf("Expected ErrInvalidMove, got %v", err)
	}

	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState() error: %v", err)
	}
	if state.Waste.Len() != 0 {
		t.Error("Expected no move to be applied")
	}
}

func TestGameService_BulkMoveTruncates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "", nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	moves := make([]engine.Move, engine.MaxBulkMoves+50)
	for i := range moves {
		moves[i] = engine.Move{Action: engine.ActionDiscardWaste}
	}

	result, err := svc.BulkMove(ctx, info.ID, moves)
	if err != nil {
		t.Fatalf("BulkMove() error: %v", err)
	}
	if !result.Truncated || result.Limit != engine.MaxBulkMoves {
		t.Errorf("Expected truncation to %d, got %+v", engine.MaxBulkMoves, result)
	}
	if result.MovesExecuted != engine.MaxBulkMoves || result.RequestedMoves != len(moves) {
		t.Errorf("Unexpected counts: executed %d requested %d", result.MovesExecuted, result.RequestedMoves)
	}
}

func TestGameService_NewDeal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "easy", seed(1))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if _, err := svc.Move(ctx, info.ID, engine.Move{Action: engine.ActionDraw}); err != nil {
		t.Fatalf("draw: %v", err)
	}

	dealt, err := svc.NewDeal(ctx, info.ID, seed(99))
	if err != nil {
		t.Fatalf("NewDeal() error: %v", err)
	}
	if dealt.Seed != 99 {
		t.Errorf("Expected seed 99, got %d", dealt.Seed)
	}

	config, _ := svc.LoadConfig(ctx, "easy")
	want, err := engine.NewEngine(config, engine.NewShuffler(99))
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	if dealt.GameState.Dump() != want.Dump() {
		t.Error("Expected the deal to match the seed")
	}
	if dealt.GameState.DrawCount != 1 {
		t.Errorf("Expected new deal to keep the session's config, got draw count %d", dealt.GameState.DrawCount)
	}

	if _, err := svc.NewDeal(ctx, "missing", nil); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_Dump(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(ctx, "", nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	dump, err := svc.Dump(ctx, info.ID)
	if err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	if !strings.Contains(dump, "Stock: 24 card(s)") {
		t.Errorf("Unexpected dump:\n%s", dump)
	}
}

func TestGameService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, _ := svc.CreateSession(ctx, "", nil)
	if _, err := svc.CreateSession(ctx, "easy", nil); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, first.ID); err != nil {
		t.Fatalf("DeleteSession() error: %v", err)
	}
	if _, err := svc.GetSession(ctx, first.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := svc.DeleteSession(ctx, first.ID); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	configs, err := svc.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs() error: %v", err)
	}
	if len(configs) != 2 {
		t.Errorf("Expected 2 configs, got %d", len(configs))
	}

	custom := engine.DefaultConfig()
	custom.Name = "custom"
	custom.DrawCount = 2
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	info, err := svc.CreateSession(ctx, "custom", nil)
	if err != nil {
		t.Fatalf("Failed to create session with saved config: %v", err)
	}
	if info.GameState.DrawCount != 2 {
		t.Errorf("Expected draw count 2, got %d", info.GameState.DrawCount)
	}

	bad := engine.DefaultConfig()
	bad.DrawCount = 9
	if err := svc.SaveConfig(ctx, "bad", bad); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
}

// Run with -race: reads that touch the access time must not overlap other
// readers of the same session.
func TestGameService_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(session.NewManager(), NewMockConfigManager())

	info, err := svc.CreateSession(ctx, "", seed(5))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				var err error
				switch (g + i) % 4 {
				case 0:
					_, err = svc.GetSession(ctx, info.ID)
				case 1:
					_, err = svc.GetGameState(ctx, info.ID)
				case 2:
					_, err = svc.ListSessions(ctx)
				default:
					_, err = svc.Move(ctx, info.ID, engine.Move{Action: engine.ActionDraw})
				}
				if err != nil {
					select {
					case errs <- err:
					default:
					}
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent call failed: %v", err)
	}

	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetGameState() error: %v", err)
	}
	if err := engine.ValidateState(state); err != nil {
		t.Errorf("State broken after concurrent access: %v", err)
	}
}

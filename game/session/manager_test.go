package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/klondike/game/engine"
)

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "test"
	config.Description = "Test configuration"
	return config
}

func seedOf(v uint64) *uint64 {
	return &v
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("with explicit ID", func(t *testing.T) {
		session, err := manager.Create("Game-1", config, nil)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "Game-1" {
			t.Errorf("Expected ID Game-1, got %s", session.ID)
		}
		if session.Engine == nil {
			t.Fatal("Expected an engine")
		}
		if err := engine.ValidateState(session.Engine.GetState()); err != nil {
			t.Errorf("Expected a valid deal, got %v", err)
		}
	})

	t.Run("duplicate ID is case-insensitive", func(t *testing.T) {
		_, err := manager.Create("game-1", config, nil)
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("../escape", config, nil)
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := createTestConfig()
		bad.DrawCount = 8
		if _, err := manager.Create("bad", bad, nil); err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_CreateWithSeed(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	a, err := manager.Create("seed-a", config, seedOf(12345))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	b, err := manager.Create("seed-b", config, seedOf(12345))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if a.Seed != 12345 {
		t.Errorf("Expected seed 12345, got %d", a.Seed)
	}
	if a.Engine.Dump() != b.Engine.Dump() {
		t.Error("Sessions with the same seed should get the same deal")
	}

	c, err := manager.Create("seed-c", config, nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	d, err := manager.Create("seed-d", config, nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if c.Seed == d.Seed {
		t.Error("Expected random seeds to differ")
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	created, err := manager.Create("AbC1", config, nil)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	for _, id := range []string{"AbC1", "abc1", "ABC1"} {
		got, err := manager.Get(id)
		if err != nil {
			t.Errorf("Get(%q) error: %v", id, err)
			continue
		}
		if got != created {
			t.Errorf("Get(%q) returned a different session", id)
		}
	}

	if _, err := manager.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	first, err := manager.GetOrCreate("shared", config, seedOf(1))
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	second, err := manager.GetOrCreate("shared", config, seedOf(2))
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}

	if first != second {
		t.Error("Expected the existing session to be returned")
	}
	if second.Seed != 1 {
		t.Errorf("Expected the original seed, got %d", second.Seed)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	if _, err := manager.Create("del", config, nil); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := manager.Delete("DEL"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if manager.Count() != 0 {
		t.Errorf("Expected 0 sessions, got %d", manager.Count())
	}
	if err := manager.Delete("del"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if err := manager.DeleteFromMemory("del"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	for i := 0; i < 3; i++ {
		if _, err := manager.Create(fmt.Sprintf("list-%d", i), config, nil); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	old, _ := manager.Create("old", config, nil)
	if _, err := manager.Create("fresh", config, nil); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := manager.Get("old"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected expired session to be gone")
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Error("Expected fresh session to remain")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session, _ := manager.Create("touch", config, nil)
	before := session.LastAccessedAt
	time.Sleep(5 * time.Millisecond)

	if err := manager.UpdateLastAccessed("TOUCH"); err != nil {
		t.Fatalf("UpdateLastAccessed() error: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected last accessed time to advance")
	}

	if err := manager.UpdateLastAccessed("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("conc-%d", id%50)
			_, err := manager.Create(sessionID, config, nil)
			if err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
			}
			manager.Get(sessionID)
			manager.List()
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", config, seedOf(5))
	session2, _ := manager.Create("iso-2", config, seedOf(5))

	session1.Engine.DrawFromStock()

	if len(session2.Engine.Waste()) != 0 {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if len(session1.Engine.Waste()) != 3 {
		t.Error("Session 1 should have drawn three cards")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)

	for i := 0; i < 50; i++ {
		session, err := manager.Create("", config, nil)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != sessionIDLength {
			t.Errorf("Expected %d-character ID, got %q", sessionIDLength, session.ID)
		}
		if strings.Trim(session.ID, "0123456789abcdef") != "" {
			t.Errorf("Expected lowercase hex ID, got %q", session.ID)
		}
	}
}

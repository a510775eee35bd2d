// Command validate checks the JSON files the server reads at startup:
//   - game configurations in --config-dir (required fields, draw count, message formats)
//   - persisted sessions in --sessions-dir (card accounting, pile ordering,
//     draw count matching the session's configuration)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/session"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	expected := strings.TrimSuffix(result.File, ".json")
	if config.Name != expected {
		result.info("Name %q differs from file name %q; sessions refer to %q", config.Name, expected, expected)
	} else {
		result.info("Name: %s", config.Name)
	}
	result.info("Draw count: %d", config.EffectiveDrawCount())

	return result
}

// validateSession loads a persisted session and checks its table.
// configs maps configuration IDs to their draw counts; a nil map skips that check.
func validateSession(filePath string, configs map[string]int) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var persisted session.PersistedSessionData
	if err := json.Unmarshal(data, &persisted); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if persisted.ID == "" {
		result.fail("Session id is empty")
	} else if strings.ToLower(persisted.ID)+".json" != result.File {
		result.fail("Session id %q does not match file name", persisted.ID)
	}

	if persisted.GameState == nil {
		result.fail("game_state is missing")
		return result
	}
	state := persisted.GameState

	if err := engine.ValidateState(state); err != nil {
		result.fail("Invalid table: %v", err)
	}

	if configs != nil {
		drawCount, ok := configs[persisted.ConfigName]
		switch {
		case !ok:
			result.fail("Unknown configuration %q", persisted.ConfigName)
		case drawCount != state.DrawCount:
			result.fail("Draw count %d does not match configuration %q (%d)",
				state.DrawCount, persisted.ConfigName, drawCount)
		}
	}

	if !result.Valid {
		return result
	}

	founded := 0
	for i := range state.Foundations {
		founded += state.Foundations[i].Len()
	}
	result.info("Config: %s, seed %d", persisted.ConfigName, persisted.Seed)
	result.info("Cards: %d (%d face-down in the tableau)", engine.CountCards(state), engine.CountFaceDown(state))
	result.info("Stock %d, waste %d, discarded %d", state.Stock.Len(), state.Waste.Len(), state.Discard.Len())
	result.info("Foundation progress: %d/%d", founded, engine.DeckSize)

	return result
}

// loadDrawCounts maps each valid configuration ID to its draw count.
func loadDrawCounts(results []ValidationResult, dir string) map[string]int {
	counts := make(map[string]int)
	for _, r := range results {
		if !r.Valid {
			continue
		}
		config, err := engine.LoadGameConfig(filepath.Join(dir, r.File))
		if err != nil {
			continue
		}
		counts[strings.TrimSuffix(r.File, ".json")] = config.EffectiveDrawCount()
	}
	return counts
}

func validateDir(dir string, validate func(string) ValidationResult) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding files in %s: %w", dir, err)
	}
	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validate(file))
	}
	return results, nil
}

// report prints each result and returns false if any file is invalid.
func report(results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}
	return allValid
}

func run(ctx context.Context, cmd *cli.Command) error {
	configDir := cmd.String("config-dir")
	configResults, err := validateDir(configDir, validateConfig)
	if err != nil {
		return err
	}
	if len(configResults) == 0 {
		return cli.Exit(fmt.Sprintf("❌ No configuration files found in %s", configDir), 1)
	}
	allValid := report(configResults)

	if sessionsDir := cmd.String("sessions-dir"); sessionsDir != "" {
		counts := loadDrawCounts(configResults, configDir)
		sessionResults, err := validateDir(sessionsDir, func(path string) ValidationResult {
			return validateSession(path, counts)
		})
		if err != nil {
			return err
		}
		if !report(sessionResults) {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return cli.Exit("❌ Some files have errors", 1)
	}
	fmt.Println("✅ All files are valid!")
	return nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate Klondike configurations and saved sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "../configs",
				Usage:   "directory holding game configuration JSON files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Usage:   "directory holding persisted sessions (skipped when empty)",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

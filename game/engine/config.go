package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultReserveLayout is the classic layout: Black keeps runs of four,
// White keeps its pieces staggered by three.
func DefaultReserveLayout() ReserveLayout {
	return ReserveLayout{
		Black: [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}},
		White: [][]int{{3, 6, 9, 12}, {1, 4, 7, 10}, {2, 5, 8, 11}},
	}
}

// Build creates the six reserve stacks, Black first. Sizes inside each stack
// must be ascending; the full integrity check runs when a Board is built.
func (l ReserveLayout) Build() ([]*Stack, error) {
	if len(l.Black) != ReserveStacksPerColor {
		return nil, fmt.Errorf("%w: BLACK needs %d stacks, got %d", ErrReserveStackCount, ReserveStacksPerColor, len(l.Black))
	}
	if len(l.White) != ReserveStacksPerColor {
		return nil, fmt.Errorf("%w: WHITE needs %d stacks, got %d", ErrReserveStackCount, ReserveStacksPerColor, len(l.White))
	}

	stacks := make([]*Stack, 0, ReserveStackCount)
	for _, group := range []struct {
		color Color
		sizes [][]int
	}{{Black, l.Black}, {White, l.White}} {
		for _, sizes := range group.sizes {
			s, err := NewExternalStack(sizes, group.color)
			if err != nil {
				return nil, fmt.Errorf("%s reserves: %w", group.color, err)
			}
			stacks = append(stacks, s)
		}
	}
	return stacks, nil
}

// DefaultGameConfig returns the built-in classic configuration
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Standard 4x4 board, Black moves first",
		FirstTurn:   Black,
		Reserves:    DefaultReserveLayout(),
		Messages: GameMessages{
			Welcome:  "Welcome! Cover smaller pieces and line up four to win.",
			Turn:     "%s to move",
			Victory:  "%s wins!",
			Rejected: "Move rejected: %s",
		},
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if !config.FirstTurn.Valid() {
		return fmt.Errorf("config validation: first_turn must be black or white")
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	for key, msg := range map[string]string{
		"turn":     config.Messages.Turn,
		"victory":  config.Messages.Victory,
		"rejected": config.Messages.Rejected,
	} {
		if msg != "" && strings.Count(msg, "%s") != 1 {
			return fmt.Errorf("config validation: messages.%s must contain exactly one %%s", key)
		}
	}

	// Validate reserves: the layout must build and pass the board's integrity check
	reserves, err := config.Reserves.Build()
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if _, err := NewBoard(BoardData{TurnTo: config.FirstTurn, Reserves: reserves}); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON or YAML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(filepath.Ext(filename), data)
	if err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DecodeGameConfig parses config data by file extension; ".yaml" and ".yml"
// use YAML, anything else JSON.
func DecodeGameConfig(ext string, data []byte) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json config: %w", err)
		}
	}
	return &config, nil
}

// ConfigExtensions are the file extensions recognised as game configs, in lookup order
var ConfigExtensions = []string{".json", ".yaml", ".yml"}

// IsConfigFile reports whether name has a config file extension
func IsConfigFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ConfigExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListConfigFiles returns the config files in dir, sorted by name
func ListConfigFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsConfigFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

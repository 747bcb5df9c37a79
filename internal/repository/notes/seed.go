package notes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedNote is a note a fresh session starts with.
type SeedNote struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// LoadSeedFile reads a YAML list of seed notes. An empty path yields no seed.
func LoadSeedFile(path string) ([]SeedNote, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file '%s': %w", path, err)
	}

	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]SeedNote, error) {
	var seed []SeedNote
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed notes: %w", err)
	}
	return seed, nil
}

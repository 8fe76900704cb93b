package hunt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedTask is one checklist entry as authored.
type SeedTask struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// DefaultChecklist is the built-in hunt used when no seed file is given.
func DefaultChecklist() []SeedTask {
	return []SeedTask{
		{Title: "Take a photo of a tree", Description: "Any tree counts, the leafier the better."},
		{Title: "Find a red front door", Description: "Knocking optional."},
		{Title: "Spot a dog out on a walk", Description: "Ask before petting."},
		{Title: "Capture some street art", Description: "Murals, stickers, chalk, anything."},
		{Title: "Photograph a body of water", Description: "Fountains and puddles are fair game."},
		{Title: "Snap the oldest building you can find", Description: "Plaques help you cheat."},
	}
}

type seedFile struct {
	Name  string     `yaml:"name"`
	Tasks []SeedTask `yaml:"tasks"`
}

// LoadSeedFile reads an ordered hunt checklist from a YAML file.
func LoadSeedFile(path string) ([]SeedTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if len(sf.Tasks) == 0 {
		return nil, fmt.Errorf("seed file %s: no tasks", path)
	}
	for i, task := range sf.Tasks {
		if task.Title == "" {
			return nil, fmt.Errorf("seed file %s: task %d has no title", path, i)
		}
	}
	return sf.Tasks, nil
}

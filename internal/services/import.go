package services

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/btmxh/folio/internal/db"
	"gopkg.in/yaml.v3"
)

// Seed is a portfolio catalog as written in a YAML seed file.
type Seed struct {
	Roles       []RoleInput       `yaml:"roles"`
	Tools       []ToolInput       `yaml:"tools"`
	Experiences []ExperienceInput `yaml:"experiences"`
	Projects    []ProjectInput    `yaml:"projects"`
}

type ImportSummary struct {
	Roles       int
	Tools       int
	Experiences int
	Projects    int
}

func (s ImportSummary) String() string {
	return fmt.Sprintf("%d roles, %d tools, %d experiences, %d projects", s.Roles, s.Tools, s.Experiences, s.Projects)
}

// ParseSeed decodes a seed document. Unknown keys are rejected so typos do
// not silently drop fields.
func ParseSeed(r io.Reader) (seed Seed, err error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err = decoder.Decode(&seed); err != nil {
		if err == io.EOF {
			return seed, nil
		}
		return seed, fmt.Errorf("unable to parse seed: %w", err)
	}
	return seed, nil
}

// Import inserts every record of the seed through the regular create
// operations, so the same validation applies. The first invalid record
// aborts the import.
func (c *Catalog) Import(tx *db.Tx, seed Seed) (summary ImportSummary, hasErr bool) {
	for _, input := range seed.Roles {
		if _, hasErr = c.CreateRole(tx, input); hasErr {
			return summary, true
		}
		summary.Roles++
	}

	for _, input := range seed.Tools {
		if _, hasErr = c.CreateTool(tx, input); hasErr {
			return summary, true
		}
		summary.Tools++
	}

	for _, input := range seed.Experiences {
		if _, hasErr = CreateExperience(tx, input); hasErr {
			return summary, true
		}
		summary.Experiences++
	}

	for _, input := range seed.Projects {
		if _, hasErr = CreateProject(tx, input); hasErr {
			return summary, true
		}
		summary.Projects++
	}

	slog.Info("Catalog imported", "summary", summary.String())
	return summary, false
}

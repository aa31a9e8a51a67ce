// Package templatefile loads questionnaire templates from YAML files.
// Files are decoded leniently: numeric fields accept quoted numbers and
// slider bounds accept integers, so hand-authored files stay forgiving.
package templatefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/solacelabs/arbor/pkg/domain"
)

type templateDTO struct {
	ID          string        `mapstructure:"id"`
	Title       string        `mapstructure:"title"`
	Description string        `mapstructure:"description"`
	Version     int           `mapstructure:"version"`
	CreatedAt   time.Time     `mapstructure:"created_at"`
	UpdatedAt   time.Time     `mapstructure:"updated_at"`
	Questions   []questionDTO `mapstructure:"questions"`
}

type questionDTO struct {
	ID          string      `mapstructure:"id"`
	Type        string      `mapstructure:"type"`
	Prompt      string      `mapstructure:"prompt"`
	Description string      `mapstructure:"description"`
	Required    bool        `mapstructure:"required"`
	Options     []optionDTO `mapstructure:"options"`
	Min         float64     `mapstructure:"min"`
	Max         float64     `mapstructure:"max"`
	Step        float64     `mapstructure:"step"`
	MinLabel    string      `mapstructure:"min_label"`
	MaxLabel    string      `mapstructure:"max_label"`
	Branches    []branchDTO `mapstructure:"branches"`
}

type optionDTO struct {
	ID    string `mapstructure:"id"`
	Label string `mapstructure:"label"`
	Value string `mapstructure:"value"`
}

type branchDTO struct {
	Option string `mapstructure:"option"`
	Target string `mapstructure:"target"`
}

// Load reads a single template file. When the file omits an id, the
// file name (without extension) is used.
func Load(path string) (*domain.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	template, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if template.ID == "" {
		base := filepath.Base(path)
		template.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return template, nil
}

// Parse decodes YAML template bytes.
func Parse(raw []byte) (*domain.Template, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	var dto templateDTO
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &dto,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("invalid template structure: %w", err)
	}

	return toDomain(&dto), nil
}

// LoadDir reads every .yaml/.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]*domain.Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	templates := make([]*domain.Template, 0, len(paths))
	for _, path := range paths {
		template, err := Load(path)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, nil
}

func toDomain(dto *templateDTO) *domain.Template {
	template := &domain.Template{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Version:     dto.Version,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
		Questions:   make([]domain.Question, 0, len(dto.Questions)),
	}

	for _, q := range dto.Questions {
		question := domain.Question{
			ID:          q.ID,
			Type:        q.Type,
			Prompt:      q.Prompt,
			Description: q.Description,
			Required:    q.Required,
			Min:         q.Min,
			Max:         q.Max,
			Step:        q.Step,
			MinLabel:    q.MinLabel,
			MaxLabel:    q.MaxLabel,
		}
		if question.Type == "" {
			question.Type = domain.QuestionTypeText
		}
		for _, opt := range q.Options {
			question.Options = append(question.Options, domain.Option{
				ID:    opt.ID,
				Label: opt.Label,
				Value: opt.Value,
			})
		}
		for _, br := range q.Branches {
			question.Branches = append(question.Branches, domain.Branch{
				OptionID:         br.Option,
				TargetQuestionID: br.Target,
			})
		}
		template.Questions = append(template.Questions, question)
	}
	return template
}

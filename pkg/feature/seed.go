package feature

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSeedFile indicates the seed file could not be read or parsed.
var ErrInvalidSeedFile = errors.New("invalid flag seed file")

// seedFile is the YAML shape of a flag fixture file:
//
//	flags:
//	  - key: premium_discount
//	    enabled: true
//	    conditions:
//	      - attribute: country
//	        operator: in
//	        value: [CA, US]
//	    parameters:
//	      discount_percentage: 40
type seedFile struct {
	Flags []seedFlag `yaml:"flags"`
}

type seedFlag struct {
	Key        string          `yaml:"key"`
	Enabled    bool            `yaml:"enabled"`
	Conditions []seedCondition `yaml:"conditions"`
	Parameters map[string]any  `yaml:"parameters"`
}

type seedCondition struct {
	Attribute string `yaml:"attribute"`
	Operator  string `yaml:"operator"`
	Value     any    `yaml:"value"`
}

// LoadSeedFile parses and validates a YAML flag fixture file. Every flag in
// the file must pass the same write-time validation the store enforces.
func LoadSeedFile(path string) ([]Flag, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidSeedFile, err)
	}

	var file seedFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, errors.Join(ErrInvalidSeedFile, err)
	}

	flags := make([]Flag, 0, len(file.Flags))
	for _, raw := range file.Flags {
		flag, err := raw.toFlag()
		if err != nil {
			return nil, errors.Join(ErrInvalidSeedFile,
				fmt.Errorf("flag %q: %w", raw.Key, err))
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

func (s seedFlag) toFlag() (Flag, error) {
	conditions := make([]Condition, 0, len(s.Conditions))
	for _, raw := range s.Conditions {
		val, err := FromRaw(raw.Value)
		if err != nil {
			return Flag{}, err
		}
		conditions = append(conditions, Condition{
			Attribute: raw.Attribute,
			Operator:  Operator(raw.Operator),
			Value:     val,
		})
	}

	if err := ValidateConfig(s.Key, conditions); err != nil {
		return Flag{}, err
	}

	return Flag{
		Key:        s.Key,
		Enabled:    s.Enabled,
		Conditions: conditions,
		Parameters: s.Parameters,
	}, nil
}

// ApplySeed upserts the given flags for a tenant. Intended for development
// fixtures: upsert semantics make repeated application idempotent.
func ApplySeed(ctx context.Context, store Store, tenantID uuid.UUID, flags []Flag, log *slog.Logger) error {
	for _, flag := range flags {
		if _, err := store.Upsert(ctx, tenantID, flag); err != nil {
			return fmt.Errorf("seed flag %q: %w", flag.Key, err)
		}
		if log != nil {
			log.InfoContext(ctx, "seeded feature flag",
				slog.String("flag_key", flag.Key),
				slog.String("tenant_id", tenantID.String()))
		}
	}
	return nil
}

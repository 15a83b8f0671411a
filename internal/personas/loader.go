package personas

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
)

// overrideFile is the YAML shape for persona table overrides.
type overrideFile struct {
	Personas []*contracts.ScoringCriteria `yaml:"personas"`
}

// LoadWithOverrides builds a registry from the built-in tables plus the
// persona definitions in the given YAML file. A file persona whose id
// matches a built-in one replaces it; a new id is appended. Decoding is
// strict: an unknown field in the file fails the load.
func LoadWithOverrides(path string) (*Registry, error) {
	if path == "" {
		return Builtin()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona overrides: %w", err)
	}

	var file overrideFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode persona overrides: %w", err)
	}

	merged := builtinCriteria()
	for _, override := range file.Personas {
		replaced := false
		for i, base := range merged {
			if base.ID == override.ID {
				merged[i] = override
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, override)
		}
	}

	return NewRegistry(merged...)
}

package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx"
)

// Store keeps machine descriptions as one file per machine, so a running
// controller can leave a record of its definition and current state.
type Store struct {
	dir       string
	ext       string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

// NewJSONStore creates a Store writing <dir>/<machine>.json.
func NewJSONStore(dir string) (*Store, error) {
	return newStore(dir, ".json",
		func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		json.Unmarshal)
}

// NewYAMLStore creates a Store writing <dir>/<machine>.yaml.
func NewYAMLStore(dir string) (*Store, error) {
	return newStore(dir, ".yaml", yaml.Marshal, yaml.Unmarshal)
}

func newStore(dir, ext string, marshal func(any) ([]byte, error), unmarshal func([]byte, any) error) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir, ext: ext, marshal: marshal, unmarshal: unmarshal}, nil
}

// Save writes d, replacing any earlier description of the same machine.
func (s *Store) Save(ctx context.Context, d fsmx.Description) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := s.marshal(d)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", d.Name, err)
	}
	fn := s.path(d.Name)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads the description saved for machine. A missing file is reported
// as os.ErrNotExist.
func (s *Store) Load(ctx context.Context, machine string) (fsmx.Description, error) {
	if err := ctx.Err(); err != nil {
		return fsmx.Description{}, err
	}
	fn := s.path(machine)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fsmx.Description{}, fmt.Errorf("machine %q: %w", machine, os.ErrNotExist)
		}
		return fsmx.Description{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var d fsmx.Description
	if err := s.unmarshal(data, &d); err != nil {
		return fsmx.Description{}, fmt.Errorf("unmarshal %s: %w", fn, err)
	}
	d.Name = machine
	return d, nil
}

func (s *Store) path(machine string) string {
	return filepath.Join(s.dir, machine+s.ext)
}

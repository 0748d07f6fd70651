package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nerrad567/relaybank/internal/relay"
)

// noPreset is the file encoding of NoSelection.
const noPreset = -1

// fileProject is the on-disk layout of a project. Every field is required,
// so all of them decode into pointers.
type fileProject struct {
	Name          *string       `json:"name"`
	RelayState    *string       `json:"relay_state"`
	Interface     *string       `json:"interface"`
	SlaveID       *int          `json:"slave_id"`
	Presets       *[]filePreset `json:"presets"`
	CurrentPreset *int          `json:"current_preset"`
	Realtime      *bool         `json:"realtime"`
}

type filePreset struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
}

// Marshal encodes p in the project file format.
func Marshal(p *Project) ([]byte, error) {
	state := p.State.String()
	slave := int(p.SlaveID)
	current := noPreset
	if i, ok := p.Selection.Index(); ok {
		current = i
	}
	presets := make([]filePreset, len(p.Presets))
	for i, pr := range p.Presets {
		name, value := pr.Name, pr.State.String()
		presets[i] = filePreset{Name: &name, Value: &value}
	}

	fp := fileProject{
		Name:          &p.Name,
		RelayState:    &state,
		Interface:     &p.Interface,
		SlaveID:       &slave,
		Presets:       &presets,
		CurrentPreset: &current,
		Realtime:      &p.Realtime,
	}

	data, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encoding project: %w", ErrPersistence, err)
	}
	return append(data, '\n'), nil
}

// decodeStrict decodes exactly one JSON document with no unknown keys.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after project document")
	}
	return nil
}

// Unmarshal decodes a project file. Any violation rejects the whole file:
// every field must be present and no other keys are allowed.
//
// A stored selection beyond the preset list is kept as-is; it is reported
// when the preset is applied.
func Unmarshal(data []byte) (*Project, error) {
	var fp fileProject
	if err := decodeStrict(data, &fp); err != nil {
		return nil, fmt.Errorf("%w: decoding project: %w", ErrPersistence, err)
	}

	var errs []error
	missing := func(field string) {
		errs = append(errs, fmt.Errorf("%s is missing", field))
	}
	p := New()

	if fp.Name == nil {
		missing("name")
	} else {
		p.Name = *fp.Name
	}

	if fp.RelayState == nil {
		missing("relay_state")
	} else if st, err := relay.Parse(*fp.RelayState); err != nil {
		errs = append(errs, fmt.Errorf("relay_state: %w", err))
	} else {
		p.State = st
	}

	if fp.Interface == nil {
		missing("interface")
	} else {
		p.Interface = *fp.Interface
	}

	if fp.SlaveID == nil {
		missing("slave_id")
	} else if *fp.SlaveID < MinSlaveID || *fp.SlaveID > MaxSlaveID {
		errs = append(errs, fmt.Errorf("slave_id %d out of range %d..%d", *fp.SlaveID, MinSlaveID, MaxSlaveID))
	} else {
		p.SlaveID = byte(*fp.SlaveID)
	}

	if fp.Presets == nil {
		missing("presets")
	} else {
		for i, pr := range *fp.Presets {
			if pr.Name == nil || pr.Value == nil {
				errs = append(errs, fmt.Errorf("presets[%d]: name and value are required", i))
				continue
			}
			if *pr.Name == "" {
				errs = append(errs, fmt.Errorf("presets[%d]: empty name", i))
				continue
			}
			st, err := relay.Parse(*pr.Value)
			if err != nil {
				errs = append(errs, fmt.Errorf("presets[%d] %q: %w", i, *pr.Name, err))
				continue
			}
			p.Presets = append(p.Presets, Preset{Name: *pr.Name, State: st})
		}
	}

	if fp.CurrentPreset == nil {
		missing("current_preset")
	} else {
		switch c := *fp.CurrentPreset; {
		case c == noPreset:
		case c < noPreset:
			errs = append(errs, fmt.Errorf("current_preset %d is invalid", c))
		default:
			p.Selection = Selected(c)
		}
	}

	if fp.Realtime == nil {
		missing("realtime")
	} else {
		p.Realtime = *fp.Realtime
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: invalid project: %w", ErrPersistence, errors.Join(errs...))
	}
	return p, nil
}

// Load reads a project file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrPersistence, path, err)
	}
	p, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path, replacing any existing file. The file is written
// next to the target and renamed so a failed save leaves the old one intact.
func Save(path string, p *Project) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// LoadPresetFile reads a legacy preset file holding a bare relay string.
// Surrounding whitespace is ignored.
func LoadPresetFile(path string) (relay.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return relay.State{}, fmt.Errorf("%w: reading %s: %w", ErrPersistence, path, err)
	}
	st, err := relay.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return relay.State{}, fmt.Errorf("%w: %s: %w", ErrPersistence, path, err)
	}
	return st, nil
}

// SavePresetFile writes state as a legacy preset file.
func SavePresetFile(path string, state relay.State) error {
	return writeFile(path, []byte(state.String()))
}

// PresetName derives a preset name from a preset file path.
func PresetName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

func writeFile(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: empty file path", ErrPersistence)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrPersistence, path, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: creating %s: %w", ErrPersistence, path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrPersistence, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrPersistence, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrPersistence, path, err)
	}
	return nil
}

package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/relaybank/internal/controller"
	"github.com/nerrad567/relaybank/internal/relay"
)

// Command errors.
var (
	// ErrUnknownAction is returned for an action with no matching event.
	ErrUnknownAction = errors.New("remote: unknown action")

	// ErrBadPayload is returned when a command payload cannot be decoded.
	ErrBadPayload = errors.New("remote: bad command payload")
)

// commandPayload is the union of all command arguments.
type commandPayload struct {
	Relay *int    `json:"relay"`
	On    *bool   `json:"on"`
	Name  *string `json:"name"`
	Index *int    `json:"index"`
	Path  *string `json:"path"`
	Value *string `json:"value"`
}

// ParseCommand turns an action and its payload into a controller event.
func ParseCommand(action string, payload []byte) (controller.Event, error) {
	var p commandPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadPayload, action, err)
		}
	}

	switch action {
	case "toggle":
		if p.Relay == nil || p.On == nil {
			return nil, fmt.Errorf("%w: toggle needs relay and on", ErrBadPayload)
		}
		if *p.Relay < 1 || *p.Relay > relay.N {
			return nil, fmt.Errorf("%w: relay %d out of range 1..%d", ErrBadPayload, *p.Relay, relay.N)
		}
		return controller.ToggleRelay{Index: *p.Relay - 1, On: *p.On}, nil
	case "set":
		return controller.SetAll{}, nil
	case "get":
		return controller.GetAll{}, nil
	case "all_on":
		return controller.AllOn{}, nil
	case "all_off":
		return controller.AllOff{}, nil
	case "apply_preset":
		return controller.ApplyPreset{}, nil
	case "refresh_ports":
		return controller.RefreshPorts{}, nil
	case "toggle_realtime":
		return controller.ToggleRealtime{}, nil
	case "add_preset":
		if p.Name == nil {
			return nil, fmt.Errorf("%w: add_preset needs name", ErrBadPayload)
		}
		return controller.AddPreset{Name: *p.Name}, nil
	case "remove_preset":
		if p.Index == nil {
			return nil, fmt.Errorf("%w: remove_preset needs index", ErrBadPayload)
		}
		return controller.RemovePreset{Index: *p.Index}, nil
	case "select_preset":
		if p.Index == nil {
			return nil, fmt.Errorf("%w: select_preset needs index", ErrBadPayload)
		}
		return controller.SelectPreset{Index: *p.Index}, nil
	case "save_project", "open_project", "save_preset_file", "load_preset_file":
		if p.Path == nil || *p.Path == "" {
			return nil, fmt.Errorf("%w: %s needs path", ErrBadPayload, action)
		}
		return pathEvent(action, *p.Path), nil
	case "set_interface":
		if p.Value == nil {
			return nil, fmt.Errorf("%w: set_interface needs value", ErrBadPayload)
		}
		return controller.SetInterface{Name: *p.Value}, nil
	case "set_slave":
		if p.Value == nil {
			return nil, fmt.Errorf("%w: set_slave needs value", ErrBadPayload)
		}
		return controller.SetSlaveID{Text: *p.Value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func pathEvent(action, path string) controller.Event {
	switch action {
	case "save_project":
		return controller.SaveProject{Path: path}
	case "open_project":
		return controller.OpenProject{Path: path}
	case "save_preset_file":
		return controller.SavePresetFile{Path: path}
	default:
		return controller.LoadPresetFile{Path: path}
	}
}

package demo

import (
	"fmt"
	"io"

	"github.com/openwebos/fsm"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ScriptFile is the YAML form of an event script:
//
//	events:
//	  - name: wind
//	    mph: 10
//	  - name: rain
//	    inches: 3
//
// Fields besides name are decoded into the event payload.
type ScriptFile struct {
	Events []map[string]any `yaml:"events"`
}

// LoadScript reads a YAML event script for scenario s.
func LoadScript(r io.Reader, s Scenario) ([]fsm.Event, error) {
	var file ScriptFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty script")
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	events := make([]fsm.Event, 0, len(file.Events))
	for i, fields := range file.Events {
		name, _ := fields["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("script event %d missing name", i)
		}
		event, err := s.Event(name, fields)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// decodePayload decodes script fields into a payload of type T.
func decodePayload[T any](fields map[string]any) (any, error) {
	var payload T
	if err := mapstructure.Decode(fields, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return payload, nil
}

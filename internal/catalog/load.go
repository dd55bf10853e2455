package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// batteryFile is the on-disk JSON shape of an external battery.
type batteryFile struct {
	Tasks []taskFile `json:"tasks"`
}

type taskFile struct {
	ID           string      `json:"id"`
	Type         TaskType    `json:"type"`
	Title        string      `json:"title"`
	Instructions string      `json:"instructions"`
	Variant      string      `json:"variant"`
	Excluded     bool        `json:"excluded"`
	TimeoutMs    int         `json:"timeout_ms"`
	FlashMs      int         `json:"flash_ms"`
	MaskMs       int         `json:"mask_ms"`
	Trials       []TrialSpec `json:"trials"`
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var parsed any
	if err := json.Unmarshal([]byte(batterySchema), &parsed); err != nil {
		return nil, fmt.Errorf("parse battery schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://battery.json", parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile("schema://battery.json")
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
})

// LoadBattery reads a battery definition from a JSON file, validates it
// against the embedded schema, and converts it into TaskDefinitions.
func LoadBattery(path string) ([]TaskDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read battery file: %w", err)
	}
	return ParseBattery(raw)
}

// ParseBattery validates and converts raw battery JSON.
func ParseBattery(raw []byte) ([]TaskDefinition, error) {
	// The jsonschema library validates a parsed JSON value, not raw bytes.
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("battery schema validation failed: %w", err)
	}

	var file batteryFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode battery: %w", err)
	}

	tasks := make([]TaskDefinition, 0, len(file.Tasks))
	for _, tf := range file.Tasks {
		def := TaskDefinition{
			ID:           tf.ID,
			Type:         tf.Type,
			Title:        tf.Title,
			Instructions: tf.Instructions,
			Variant:      tf.Variant,
			Excluded:     tf.Excluded,
			Trials:       tf.Trials,
			Config: TrialConfig{
				Timeout:       msOrDefault(tf.TimeoutMs, DefaultTimeout),
				FlashDuration: time.Duration(tf.FlashMs) * time.Millisecond,
				MaskDuration:  time.Duration(tf.MaskMs) * time.Millisecond,
			},
		}
		if tf.Variant == "" {
			def.Variant = "plain"
		}
		if def.Type == TypeMaskedFlash {
			if def.Config.FlashDuration == 0 {
				def.Config.FlashDuration = DefaultFlash
			}
			if def.Config.MaskDuration == 0 {
				def.Config.MaskDuration = DefaultMask
			}
		}
		tasks = append(tasks, def)
	}

	if err := validateBattery(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// validateBattery enforces the cross-field rules the JSON schema cannot
// express.
func validateBattery(tasks []TaskDefinition) error {
	seen := make(map[string]bool, len(tasks))
	for _, def := range tasks {
		if seen[def.ID] {
			return fmt.Errorf("duplicate task id %q", def.ID)
		}
		seen[def.ID] = true

		for i, spec := range def.Trials {
			if def.Type == TypeLexicalDecision {
				if spec.Stimulus == "" {
					return fmt.Errorf("task %q trial %d: lexical trial needs a stimulus", def.ID, i)
				}
				continue
			}
			if spec.Target == "" {
				return fmt.Errorf("task %q trial %d: missing target", def.ID, i)
			}
			if len(spec.Distractors) == 0 {
				return fmt.Errorf("task %q trial %d: missing distractors", def.ID, i)
			}
			for _, d := range spec.Distractors {
				if d == spec.Target {
					return fmt.Errorf("task %q trial %d: distractor equals target %q", def.ID, i, spec.Target)
				}
			}
		}
	}
	return nil
}

func msOrDefault(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validBattery = `{
  "tasks": [
    {
      "id": "letters",
      "type": "letter_match",
      "title": "Letters",
      "instructions": "pick the matching letter",
      "timeout_ms": 4000,
      "trials": [
        {"target": "b", "distractors": ["d", "p"]}
      ]
    },
    {
      "id": "flash",
      "type": "masked_flash",
      "title": "Flash",
      "instructions": "watch closely",
      "trials": [
        {"target": "n", "distractors": ["m"]}
      ]
    },
    {
      "id": "words",
      "type": "lexical_decision",
      "title": "Words",
      "instructions": "real or not",
      "trials": [
        {"stimulus": "house", "real": true},
        {"stimulus": "blorft"}
      ]
    }
  ]
}`

func TestParseBattery_Valid(t *testing.T) {
	tasks, err := ParseBattery([]byte(validBattery))
	if err != nil {
		t.Fatalf("ParseBattery: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("tasks = %d, want 3", len(tasks))
	}

	letters := tasks[0]
	if letters.Config.Timeout != 4*time.Second {
		t.Errorf("timeout = %v, want 4s", letters.Config.Timeout)
	}
	if letters.Variant != "plain" {
		t.Errorf("variant = %q, want default plain", letters.Variant)
	}

	flash := tasks[1]
	if flash.Config.FlashDuration != DefaultFlash {
		t.Errorf("flash = %v, want default %v", flash.Config.FlashDuration, DefaultFlash)
	}
	if flash.Config.MaskDuration != DefaultMask {
		t.Errorf("mask = %v, want default %v", flash.Config.MaskDuration, DefaultMask)
	}
	if flash.Config.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want default %v", flash.Config.Timeout, DefaultTimeout)
	}

	words := tasks[2]
	if got := words.AnswerTarget(words.Trials[0]); got != ChoiceReal {
		t.Errorf("answer for real word = %q, want %q", got, ChoiceReal)
	}
	if got := words.AnswerTarget(words.Trials[1]); got != ChoiceNotReal {
		t.Errorf("answer for pseudoword = %q, want %q", got, ChoiceNotReal)
	}
}

func TestParseBattery_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			"not json",
			`{"tasks": [`,
			"invalid JSON",
		},
		{
			"no tasks",
			`{"tasks": []}`,
			"schema validation",
		},
		{
			"unknown type",
			`{"tasks": [{"id": "x", "type": "rhyming", "title": "X", "instructions": "i",
			  "trials": [{"target": "a", "distractors": ["b"]}]}]}`,
			"schema validation",
		},
		{
			"timeout below floor",
			`{"tasks": [{"id": "x", "type": "letter_match", "title": "X", "instructions": "i",
			  "timeout_ms": 100, "trials": [{"target": "a", "distractors": ["b"]}]}]}`,
			"schema validation",
		},
		{
			"duplicate ids",
			`{"tasks": [
			  {"id": "x", "type": "letter_match", "title": "X", "instructions": "i",
			   "trials": [{"target": "a", "distractors": ["b"]}]},
			  {"id": "x", "type": "letter_match", "title": "X2", "instructions": "i",
			   "trials": [{"target": "a", "distractors": ["b"]}]}
			]}`,
			"duplicate task id",
		},
		{
			"lexical without stimulus",
			`{"tasks": [{"id": "w", "type": "lexical_decision", "title": "W", "instructions": "i",
			  "trials": [{"real": true}]}]}`,
			"needs a stimulus",
		},
		{
			"option trial without target",
			`{"tasks": [{"id": "x", "type": "letter_match", "title": "X", "instructions": "i",
			  "trials": [{"distractors": ["b"]}]}]}`,
			"missing target",
		},
		{
			"option trial without distractors",
			`{"tasks": [{"id": "x", "type": "letter_match", "title": "X", "instructions": "i",
			  "trials": [{"target": "a"}]}]}`,
			"missing distractors",
		},
		{
			"distractor equals target",
			`{"tasks": [{"id": "x", "type": "letter_match", "title": "X", "instructions": "i",
			  "trials": [{"target": "a", "distractors": ["a", "b"]}]}]}`,
			"distractor equals target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBattery([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadBattery_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery.json")
	if err := os.WriteFile(path, []byte(validBattery), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, err := LoadBattery(path)
	if err != nil {
		t.Fatalf("LoadBattery: %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("tasks = %d, want 3", len(tasks))
	}

	if _, err := LoadBattery(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestDefaultBattery_PassesValidation(t *testing.T) {
	tasks := DefaultBattery()
	if err := validateBattery(tasks); err != nil {
		t.Fatalf("built-in battery invalid: %v", err)
	}

	if !tasks[0].Excluded {
		t.Error("first task should be the unscored warmup")
	}
	for _, def := range tasks {
		if !def.Type.Valid() {
			t.Errorf("task %s: invalid type %q", def.ID, def.Type)
		}
		if def.Config.Timeout <= 0 {
			t.Errorf("task %s: no timeout", def.ID)
		}
		if def.Type == TypeMaskedFlash && (def.Config.FlashDuration <= 0 || def.Config.MaskDuration <= 0) {
			t.Errorf("task %s: masked flash needs flash and mask durations", def.ID)
		}
	}
}

func TestDefaultBattery_ReturnsFreshCopies(t *testing.T) {
	a := DefaultBattery()
	a[1].Trials[0].Target = "mutated"
	b := DefaultBattery()
	if b[1].Trials[0].Target == "mutated" {
		t.Error("mutating one battery copy leaked into the next")
	}
}

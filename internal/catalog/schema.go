package catalog

// batterySchema is the JSON Schema an external battery file must satisfy.
// Structural validation happens here; cross-field rules (unique ids,
// type-appropriate trial fields) are checked in validateBattery.
const batterySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type", "title", "instructions", "trials"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {
            "type": "string",
            "enum": ["letter_match", "sound_match", "masked_flash", "lexical_decision"]
          },
          "title": {"type": "string", "minLength": 1},
          "instructions": {"type": "string", "minLength": 1},
          "variant": {"type": "string"},
          "excluded": {"type": "boolean"},
          "timeout_ms": {"type": "integer", "minimum": 500},
          "flash_ms": {"type": "integer", "minimum": 16},
          "mask_ms": {"type": "integer", "minimum": 16},
          "trials": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "properties": {
                "target": {"type": "string", "minLength": 1},
                "distractors": {
                  "type": "array",
                  "items": {"type": "string", "minLength": 1},
                  "minItems": 1
                },
                "stimulus": {"type": "string", "minLength": 1},
                "real": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

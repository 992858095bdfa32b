package shared

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DecoderConfig: default mapstructure decoder settings. Weak typing keeps
// loosely-typed filter payloads decodable without hand-written coercion.
func DecoderConfig(result any) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	}
}

// Decode maps a loose map[string]any onto a struct, failing on type
// conversion errors instead of panicking at use sites.
func Decode(input map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(DecoderConfig(result))
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// DecodeStrict is Decode plus rejection of unknown fields.
func DecodeStrict(input map[string]any, result any) error {
	cfg := DecoderConfig(result)
	cfg.ErrorUnused = true
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

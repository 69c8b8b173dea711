// Package validation validates configuration structs with go-playground
// validator tags and reports failures as INVALID_ARGUMENT errors.
//
//	type Config struct {
//	    Policy string `mapstructure:"policy" validate:"omitempty,oneof=none all 5xx"`
//	}
//	if err := validation.Struct(cfg); err != nil { ... }
package validation

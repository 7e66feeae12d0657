package refactor

import (
	"fmt"
	"log/slog"
	"strings"
)

// GuardMode selects which synthesized constructor parameters get a null guard.
type GuardMode string

const (
	// GuardAuto guards property-backed parameters under the properties policy
	// and nothing under the fields-only policy.
	GuardAuto   GuardMode = "auto"
	GuardAlways GuardMode = "always"
	GuardNever  GuardMode = "never"
)

// Options control which refactorings are offered and how they render.
//
// Guards                 – null-guard policy for synthesized constructors (auto, always, never).
// FieldsPolicy           – offer "Create constructor for dependency injection".
// PropertiesPolicy       – offer "... with properties".
// IntroduceField         – offer the two "Introduce and initialize field" actions.
type Options struct {
	Guards           GuardMode    `json:"guards,omitempty" yaml:"guards,omitempty" toml:"guards,omitempty" mapstructure:"guards,omitempty"`
	FieldsPolicy     bool         `json:"fields_policy,omitempty" yaml:"fields_policy,omitempty" toml:"fields_policy,omitempty" mapstructure:"fields_policy,omitempty"`
	PropertiesPolicy bool         `json:"properties_policy,omitempty" yaml:"properties_policy,omitempty" toml:"properties_policy,omitempty" mapstructure:"properties_policy,omitempty"`
	IntroduceField   bool         `json:"introduce_field,omitempty" yaml:"introduce_field,omitempty" toml:"introduce_field,omitempty" mapstructure:"introduce_field,omitempty"`
	Logger           *slog.Logger `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

func NewOptions() *Options {
	return &Options{
		Guards:           GuardAuto,
		FieldsPolicy:     true,
		PropertiesPolicy: true,
		IntroduceField:   true,
	}
}

// Normalize fills defaults and validates the guard mode.
func (o *Options) Normalize() error {
	o.Guards = GuardMode(strings.ToLower(strings.TrimSpace(string(o.Guards))))
	switch o.Guards {
	case "":
		o.Guards = GuardAuto
	case GuardAuto, GuardAlways, GuardNever:
	default:
		return fmt.Errorf("unknown guard mode %q (want auto, always or never)", o.Guards)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return nil
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithGuards(m GuardMode) Option { return func(o *Options) { o.Guards = m } }
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }
func WithoutFieldsPolicy() Option { return func(o *Options) { o.FieldsPolicy = false } }
func WithoutPropertiesPolicy() Option { return func(o *Options) { o.PropertiesPolicy = false } }
func WithoutIntroduceField() Option { return func(o *Options) { o.IntroduceField = false } }
func WithOptions(src Options) Option { return func(o *Options) { *o = src } }

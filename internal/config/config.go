package config

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete application configuration.
type Config struct {
	View        ViewConfig        `yaml:"view" toml:"view"`
	Interaction InteractionConfig `yaml:"interaction" toml:"interaction"`
	History     HistoryConfig     `yaml:"history" toml:"history"`
	Symbols     SymbolsConfig     `yaml:"symbols" toml:"symbols"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// ViewConfig holds the canvas transform settings.
type ViewConfig struct {
	// Width and Height are the initial widget size in pixels.
	Width  float64 `yaml:"width" toml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" toml:"height" validate:"gt=0"`

	ZoomMin  float64 `yaml:"zoom_min" toml:"zoom_min" validate:"gt=0"`
	ZoomMax  float64 `yaml:"zoom_max" toml:"zoom_max" validate:"gtefield=ZoomMin"`
	ZoomStep float64 `yaml:"zoom_step" toml:"zoom_step" validate:"gt=1"`

	// BaseUnitPixels is the pixel length of one diagram unit at zoom 1.
	// When 0 it is derived from DPI and UnitMM.
	BaseUnitPixels float64 `yaml:"base_unit_pixels" toml:"base_unit_pixels" validate:"gte=0"`
	DPI            float64 `yaml:"dpi" toml:"dpi" validate:"gte=0"`
	UnitMM         float64 `yaml:"unit_mm" toml:"unit_mm" validate:"gte=0"`

	// RedrawMaxRegions is how many separate dirty regions are kept before
	// they merge into one; RedrawThreshold is the dirty screen fraction
	// that turns into a full repaint.
	RedrawMaxRegions int     `yaml:"redraw_max_regions" toml:"redraw_max_regions" validate:"gte=1"`
	RedrawThreshold  float64 `yaml:"redraw_threshold" toml:"redraw_threshold" validate:"gt=0,lte=1"`
}

// InteractionConfig holds pointer tolerances in pixels.
type InteractionConfig struct {
	HitTolerance  float64 `yaml:"hit_tolerance" toml:"hit_tolerance" validate:"gte=0"`
	WireTolerance float64 `yaml:"wire_tolerance" toml:"wire_tolerance" validate:"gte=0"`
	SnapRadius    float64 `yaml:"snap_radius" toml:"snap_radius" validate:"gte=0"`

	// PasteOffset is how many grid units pasted objects are shifted.
	PasteOffset float64 `yaml:"paste_offset" toml:"paste_offset"`
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	// MaxEntries caps the undo stack; 0 keeps everything.
	MaxEntries int `yaml:"max_entries" toml:"max_entries" validate:"gte=0"`
}

// SymbolsConfig locates the symbol library.
type SymbolsConfig struct {
	Paths         []string      `yaml:"paths" toml:"paths" validate:"dive,required"`
	Watch         bool          `yaml:"watch" toml:"watch"`
	ReloadDelay   time.Duration `yaml:"reload_delay" toml:"reload_delay" validate:"gte=0"`
	ScriptTimeout time.Duration `yaml:"script_timeout" toml:"script_timeout" validate:"gt=0"`
}

// LoggingConfig selects the logger.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=console json"`
	// File receives log output; empty means stderr.
	File string `yaml:"file" toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			Width:    800,
			Height:   600,
			ZoomMin:  0.1,
			ZoomMax:  20,
			ZoomStep: 1.25,
			DPI:      96,
			UnitMM:   2.54,

			RedrawMaxRegions: 32,
			RedrawThreshold:  0.5,
		},
		Interaction: InteractionConfig{
			HitTolerance:  4,
			WireTolerance: 4,
			SnapRadius:    8,
			PasteOffset:   1,
		},
		Symbols: SymbolsConfig{
			ReloadDelay:   200 * time.Millisecond,
			ScriptTimeout: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every setting and reports all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationErrors{}
	for _, fe := range verrs {
		// Namespace is "Config.view.zoom_max"; drop the root type.
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		out.Errors = append(out.Errors, &FieldError{
			Path:  path,
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}

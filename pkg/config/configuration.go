package config

import (
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/meshview/pkg/errors"
)

// Reserved slot keys. A slot only accepts one variant.
const (
	CoordinatesKey = "@coordinates" // core section, Coordinates
	LoadKey        = "@load"        // channel section, Routing
	BordersKey     = "@borders"     // router section, Boolean
)

// Section names used in error messages.
const (
	SectionCore    = "core"
	SectionRouter  = "router"
	SectionChannel = "channel"
)

// Configuration is the display configuration of a document: one ordered
// field set each for cores, routers and channels.
type Configuration struct {
	Core    *Fields `json:"core"`
	Router  *Fields `json:"router"`
	Channel *Fields `json:"channel"`
}

// New returns an empty configuration.
func New() *Configuration {
	return &Configuration{Core: NewFields(), Router: NewFields(), Channel: NewFields()}
}

// Validate checks every reserved slot and reports all shape errors at once.
// Each collected error is a *errors.ConfigurationShapeError.
func (c *Configuration) Validate() error {
	var result *multierror.Error
	if _, err := c.Coordinates(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.Routing(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.BordersVisible(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Coordinates returns the coordinates slot, or nil when absent.
func (c *Configuration) Coordinates() (*Coordinates, error) {
	f, ok := c.Core.Get(CoordinatesKey)
	if !ok {
		return nil, nil
	}
	v, ok := f.(Coordinates)
	if !ok {
		return nil, shapeError(SectionCore, CoordinatesKey, KindCoordinates, f)
	}
	return &v, nil
}

// Routing returns the load slot, or nil when absent.
func (c *Configuration) Routing() (*Routing, error) {
	f, ok := c.Channel.Get(LoadKey)
	if !ok {
		return nil, nil
	}
	v, ok := f.(Routing)
	if !ok {
		return nil, shapeError(SectionChannel, LoadKey, KindRouting, f)
	}
	return &v, nil
}

// BordersVisible reports whether sink/source glyphs are shown. Glyphs are
// shown unless the borders slot holds Boolean{false}.
func (c *Configuration) BordersVisible() (bool, error) {
	f, ok := c.Router.Get(BordersKey)
	if !ok {
		return true, nil
	}
	v, ok := f.(Boolean)
	if !ok {
		return true, shapeError(SectionRouter, BordersKey, KindBoolean, f)
	}
	return v.Value, nil
}

func shapeError(section, key string, want Kind, got Field) error {
	return &errors.ConfigurationShapeError{Section: section, Key: key, Want: string(want), Got: string(got.Kind())}
}

// Font size limits.
const (
	MinAttributeFontSize     = 10.0
	MaxAttributeFontSize     = 30.0
	DefaultAttributeFontSize = 16.0
	MinTaskFontSize          = 12.0
	MaxTaskFontSize          = 36.0
	DefaultTaskFontSize      = 22.0
)

// BaseConfiguration holds the appearance settings that are not tied to an
// attribute.
type BaseConfiguration struct {
	AttributeFontSize float64 `json:"attributeFontSize"`
	TaskFontSize      float64 `json:"taskFontSize"`
}

// DefaultBase returns the default appearance settings.
func DefaultBase() BaseConfiguration {
	return BaseConfiguration{AttributeFontSize: DefaultAttributeFontSize, TaskFontSize: DefaultTaskFontSize}
}

// Clamp returns b with each size limited to its range. A zero size takes
// the default.
func (b BaseConfiguration) Clamp() BaseConfiguration {
	if b.AttributeFontSize == 0 {
		b.AttributeFontSize = DefaultAttributeFontSize
	}
	if b.TaskFontSize == 0 {
		b.TaskFontSize = DefaultTaskFontSize
	}
	b.AttributeFontSize = min(MaxAttributeFontSize, max(MinAttributeFontSize, b.AttributeFontSize))
	b.TaskFontSize = min(MaxTaskFontSize, max(MinTaskFontSize, b.TaskFontSize))
	return b
}

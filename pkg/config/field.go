package config

// Field is the display configuration of one attribute key. It is a closed
// set of variants: [Text], [ColouredText], [Fill], [Coordinates], [Routing]
// and [Boolean].
type Field interface {
	// Kind returns the variant name as used in configuration files.
	Kind() Kind
	sealed()
}

// Kind names a Field variant.
type Kind string

const (
	KindText         Kind = "Text"
	KindColouredText Kind = "ColouredText"
	KindFill         Kind = "Fill"
	KindCoordinates  Kind = "Coordinates"
	KindRouting      Kind = "Routing"
	KindBoolean      Kind = "Boolean"
)

// Text renders "<display>: <value>" in a fixed colour (black when empty).
type Text struct {
	Display string
	Colour  string
}

// ColouredText renders "<display>: <value>" in the colour of the value's bucket.
type ColouredText struct {
	Display    string
	Thresholds Thresholds
}

// Fill colours the element itself by bucket and renders no text.
type Fill struct {
	Thresholds Thresholds
}

// Coordinates renders the grid position of each core below it.
type Coordinates struct {
	Orientation Orientation
}

// Routing controls how channel loads are computed and displayed.
type Routing struct {
	Algorithm   string
	LoadDisplay LoadDisplay
	Thresholds  Thresholds
	Display     string
}

// Boolean switches a feature on or off.
type Boolean struct {
	Value bool
}

func (Text) Kind() Kind         { return KindText }
func (ColouredText) Kind() Kind { return KindColouredText }
func (Fill) Kind() Kind         { return KindFill }
func (Coordinates) Kind() Kind  { return KindCoordinates }
func (Routing) Kind() Kind      { return KindRouting }
func (Boolean) Kind() Kind      { return KindBoolean }

func (Text) sealed()         {}
func (ColouredText) sealed() {}
func (Fill) sealed()         {}
func (Coordinates) sealed()  {}
func (Routing) sealed()      {}
func (Boolean) sealed()      {}

// Orientation selects where row 0 is counted from in coordinate labels.
type Orientation uint8

const (
	Top Orientation = iota
	Bottom
)

func (o Orientation) String() string {
	if o == Bottom {
		return "Bottom"
	}
	return "Top"
}

// ParseOrientation parses "Top" or "Bottom". Any other value falls back to
// Top.
//
// TODO: reject unknown orientations once existing configuration files have
// been migrated; the silent fallback hides typos such as "bottom".
func ParseOrientation(s string) Orientation {
	if s == "Bottom" {
		return Bottom
	}
	return Top
}

// LoadDisplay selects how a channel load label is written.
type LoadDisplay uint8

const (
	// Percentage writes "Load: 20%".
	Percentage LoadDisplay = iota
	// Fraction writes "Load: 20/100".
	Fraction
)

func (l LoadDisplay) String() string {
	if l == Fraction {
		return "Fraction"
	}
	return "Percentage"
}

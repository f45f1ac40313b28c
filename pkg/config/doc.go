// Package config holds the display configuration of a mesh document.
//
// A [Configuration] has three ordered sections, one per element kind
// (core, router, channel). Each section maps an attribute key of the
// topology to a [Field] that says how the attribute is shown: as text, as
// coloured text, as a fill colour, and so on. Section order matters: the
// first text-producing key of an element is drawn on its first label line.
//
// Three keys are reserved and accept a single variant:
//
//	core    "@coordinates"  Coordinates
//	channel "@load"         Routing
//	router  "@borders"      Boolean
//
// Configurations are read from JSON or TOML with [Load] or [Decode]. Both
// readers keep the key order of the file.
package config

package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/meshview/pkg/errors"
)

// Supported file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Load reads a configuration file. The format follows the file extension;
// anything other than ".toml" is read as JSON.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	format := FormatJSON
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = FormatTOML
	}
	return Decode(data, format)
}

// Decode parses data in the given format.
func Decode(data []byte, format string) (*Configuration, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatTOML:
		return DecodeTOML(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown configuration format %q", format)
}

// DecodeJSON parses a JSON configuration keeping key order.
func DecodeJSON(data []byte) (*Configuration, error) {
	c := New()
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(c); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode configuration")
	}
	return c, nil
}

// DecodeTOML parses a TOML configuration keeping key order:
//
//	[core.temperature]
//	type = "Fill"
//	colourSettings = { bounds = [40, 60, 80, 100], colours = ["green", "yellow", "orange", "red"] }
//
//	[core."@coordinates"]
//	type = "Coordinates"
//	orientation = "Bottom"
//
// Attribute order is the order in which keys first appear in the document.
func DecodeTOML(data []byte) (*Configuration, error) {
	var raw struct {
		Core    map[string]toml.Primitive `toml:"core"`
		Router  map[string]toml.Primitive `toml:"router"`
		Channel map[string]toml.Primitive `toml:"channel"`
	}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode configuration")
	}

	order := map[string][]string{}
	seen := map[[2]string]bool{}
	for _, k := range md.Keys() {
		if len(k) < 2 {
			continue
		}
		id := [2]string{k[0], k[1]}
		if seen[id] {
			continue
		}
		seen[id] = true
		order[k[0]] = append(order[k[0]], k[1])
	}

	c := New()
	sections := []struct {
		name   string
		prims  map[string]toml.Primitive
		target *Fields
	}{
		{SectionCore, raw.Core, c.Core},
		{SectionRouter, raw.Router, c.Router},
		{SectionChannel, raw.Channel, c.Channel},
	}
	for _, s := range sections {
		for _, key := range order[s.name] {
			prim, ok := s.prims[key]
			if !ok {
				continue
			}
			var dto fieldDTO
			if err := md.PrimitiveDecode(prim, &dto); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s.%s", s.name, key)
			}
			field, err := dto.field()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s.%s", s.name, key)
			}
			s.target.Set(key, field)
		}
	}
	return c, nil
}

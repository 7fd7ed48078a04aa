package config

import (
	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML document into a Tree.
func ParseYAML(data []byte) (*Tree, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	return NewTree(root), nil
}

// ParseTOML parses a TOML document into a Tree.
func ParseTOML(data []byte) (*Tree, error) {
	var root map[string]any
	if _, err := toml.Decode(string(data), &root); err != nil {
		return nil, errors.Wrap(err, "parse toml")
	}
	return NewTree(root), nil
}

// ParseJSON parses a JSON object into a Tree.  Numbers become float64
// and are converted to the field type on resolution.
func ParseJSON(data []byte) (*Tree, error) {
	var root map[string]any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parse json")
	}
	return NewTree(root), nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SecretsFile is looked up next to the configuration file for !secret tags.
const SecretsFile = "secrets.yaml"

const (
	tagSecret = "!secret"
	tagEnvVar = "!env_var"
	tagMerge  = "!!merge"
)

// Loader reads a YAML configuration file and returns the raw component mapping.
type Loader struct {
	// SecretsPath overrides the secrets file location.
	SecretsPath string
	// LookupEnv resolves !env_var tags. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	secrets map[string]any
}

// LoadFile reads path with a default Loader.
func LoadFile(path string) (map[string]any, error) {
	l := &Loader{}
	return l.Load(path)
}

// Load reads path and returns the ftp_http_proxy mapping found in it.
func (l *Loader) Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	if l.SecretsPath == "" {
		l.SecretsPath = filepath.Join(filepath.Dir(path), SecretsFile)
	}
	raw, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return raw, nil
}

// Parse decodes a YAML document and returns its ftp_http_proxy mapping.
func (l *Loader) Parse(data []byte) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, &MissingOptionError{Key: ComponentKey}
	}

	value, err := l.convert(&doc)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, &MissingOptionError{Key: ComponentKey}
	}
	top, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be a mapping, got %s", typeName(value))
	}

	section, ok := top[ComponentKey]
	if !ok {
		return nil, &MissingOptionError{Key: ComponentKey}
	}
	component, ok := section.(map[string]any)
	if !ok {
		return nil, &InvalidValueError{Key: ComponentKey, Constraint: "expected a mapping, got " + typeName(section)}
	}
	return component, nil
}

func (l *Loader) convert(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return l.convert(n.Content[0])

	case yaml.AliasNode:
		return l.convert(n.Alias)

	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			if keyNode.ShortTag() == tagMerge {
				merges = append(merges, valueNode)
				continue
			}
			if _, dup := m[keyNode.Value]; dup {
				return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, keyNode.Value)
			}
			value, err := l.convert(valueNode)
			if err != nil {
				return nil, err
			}
			m[keyNode.Value] = value
		}
		// explicit keys win over merged ones, earlier merge sources over later ones
		for _, merge := range merges {
			if err := l.merge(m, merge); err != nil {
				return nil, err
			}
		}
		return m, nil

	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			value, err := l.convert(item)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil

	case yaml.ScalarNode:
		switch n.Tag {
		case tagSecret:
			return l.secret(n)
		case tagEnvVar:
			return l.envVar(n)
		}
		if strings.HasPrefix(n.Tag, "!") && !strings.HasPrefix(n.Tag, "!!") {
			return nil, fmt.Errorf("line %d: unsupported tag %s", n.Line, n.Tag)
		}
		var value any
		if err := n.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value, nil
	}
	return nil, fmt.Errorf("line %d: unexpected YAML node", n.Line)
}

// merge copies the entries of a "<<" value (a mapping, an alias to one or a
// sequence of them) into m without overwriting existing keys.
func (l *Loader) merge(m map[string]any, n *yaml.Node) error {
	value, err := l.convert(n)
	if err != nil {
		return err
	}
	sources := []any{value}
	if list, ok := value.([]any); ok {
		sources = list
	}
	for _, src := range sources {
		entries, ok := src.(map[string]any)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping or a list of mappings, got %s", n.Line, typeName(src))
		}
		for key, v := range entries {
			if _, exists := m[key]; !exists {
				m[key] = v
			}
		}
	}
	return nil
}

func (l *Loader) secret(n *yaml.Node) (any, error) {
	if l.secrets == nil {
		if err := l.loadSecrets(); err != nil {
			return nil, err
		}
	}
	value, ok := l.secrets[n.Value]
	if !ok {
		return nil, fmt.Errorf("line %d: secret %q not defined in %s", n.Line, n.Value, l.SecretsPath)
	}
	return value, nil
}

func (l *Loader) loadSecrets() error {
	if l.SecretsPath == "" {
		return fmt.Errorf("no secrets file configured")
	}
	data, err := os.ReadFile(l.SecretsPath)
	if err != nil {
		return fmt.Errorf("error reading secrets file: %w", err)
	}
	secrets := map[string]any{}
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("error parsing %s: %w", l.SecretsPath, err)
	}
	l.secrets = secrets
	return nil
}

// envVar resolves "!env_var NAME" or "!env_var NAME default".
func (l *Loader) envVar(n *yaml.Node) (any, error) {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	name, def, hasDefault := strings.Cut(strings.TrimSpace(n.Value), " ")
	if value, ok := lookup(name); ok {
		return value, nil
	}
	if hasDefault {
		return strings.TrimSpace(def), nil
	}
	return nil, fmt.Errorf("line %d: environment variable %s is not set", n.Line, name)
}

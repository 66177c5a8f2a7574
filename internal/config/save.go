package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetValue sets the scalar at a dotted key ("editor.scroll") in the config
// file, creating the file and any missing sections. Comments and formatting
// in other sections are preserved by editing the yaml.Node tree.
func SetValue(configPath, key, value string) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid key %q", key)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}

	node := doc.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}
	for _, p := range parts[:len(parts)-1] {
		child := lookup(node, p)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: p}, child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("%s is not a section", p)
		}
		node = child
	}

	last := parts[len(parts)-1]
	if leaf := lookup(node, last); leaf != nil {
		if leaf.Kind != yaml.ScalarNode {
			return fmt.Errorf("%s is a section, not a value", key)
		}
		leaf.Value = value
		leaf.Tag = ""
		leaf.Style = 0
	} else {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: last},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value},
		)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// KnownKey reports whether key names a value in the default configuration.
// Any key under "flags." is accepted.
func KnownKey(key string) bool {
	if name, ok := strings.CutPrefix(key, "flags."); ok {
		return name != "" && !strings.Contains(name, ".")
	}
	var doc yaml.Node
	if err := doc.Encode(Defaults()); err != nil {
		return false
	}
	node := &doc
	for _, p := range strings.Split(key, ".") {
		if node = lookup(node, p); node == nil {
			return false
		}
	}
	return node.Kind == yaml.ScalarNode
}

// lookup returns the value node for key in a mapping node.
func lookup(m *yaml.Node, key string) *yaml.Node {
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "stitch.dev/pkg/stitch/internal/model"
)

// DescriptorStore loads structure descriptors from the sidecar files produced
// by the annotation parser. The weaver treats the loaded descriptors as
// read-only.
type DescriptorStore interface {
	// Load reads one sidecar and builds the structure descriptor it
	// describes.
	Load(path m.Path) (*m.StructureDescriptor, error)
}

// sidecarDoc is the on-disk YAML schema of a descriptor sidecar.
type sidecarDoc struct {
	Structure    string        `yaml:"structure"`
	Source       string        `yaml:"source"`
	Dependencies []string      `yaml:"dependencies"`
	Functions    []functionDoc `yaml:"functions"`
}

type functionDoc struct {
	Name         string `yaml:"name"`
	Visibility   string `yaml:"visibility"`
	Static       bool   `yaml:"static"`
	Abstract     bool   `yaml:"abstract"`
	AccessorHook bool   `yaml:"accessor_hook"`
	Modifiers    string `yaml:"modifiers"`
	Params       string `yaml:"params"`
	Args         string `yaml:"args"`
}

// LocalDescriptorStore is the concrete DescriptorStore backed by YAML files
// on disk.
type LocalDescriptorStore struct{}

// NewLocalDescriptorStore constructs a LocalDescriptorStore.
func NewLocalDescriptorStore() *LocalDescriptorStore {
	return &LocalDescriptorStore{}
}

// Load reads and validates a sidecar file.
func (s *LocalDescriptorStore) Load(path m.Path) (*m.StructureDescriptor, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar %s: %w", path, err)
	}

	var doc sidecarDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar %s: %w", path, err)
	}

	return buildDescriptor(path, doc)
}

func buildDescriptor(path m.Path, doc sidecarDoc) (*m.StructureDescriptor, error) {
	if doc.Structure == "" {
		return nil, fmt.Errorf("sidecar %s: missing structure name", path)
	}

	descriptor := &m.StructureDescriptor{
		QualifiedName: m.QualifiedName(doc.Structure),
		SourcePath:    m.Path(doc.Source),
		Functions:     make(map[string]*m.FunctionDescriptor, len(doc.Functions)),
	}

	for _, dep := range doc.Dependencies {
		descriptor.Dependencies = append(descriptor.Dependencies, m.QualifiedName(dep))
	}

	for _, fn := range doc.Functions {
		if fn.Name == "" {
			return nil, fmt.Errorf("sidecar %s: function without name", path)
		}

		if _, dup := descriptor.Functions[fn.Name]; dup {
			return nil, fmt.Errorf("sidecar %s: duplicate function %q", path, fn.Name)
		}

		visibility, err := parseVisibility(fn.Visibility)
		if err != nil {
			return nil, fmt.Errorf("sidecar %s: function %q: %w", path, fn.Name, err)
		}

		descriptor.Functions[fn.Name] = &m.FunctionDescriptor{
			Name:         fn.Name,
			Visibility:   visibility,
			Static:       fn.Static,
			Abstract:     fn.Abstract,
			AccessorHook: fn.AccessorHook,
			Header: m.FunctionHeader{
				Modifiers: fn.Modifiers,
				Name:      fn.Name,
				Params:    fn.Params,
				Args:      fn.Args,
			},
		}
		descriptor.FunctionOrder = append(descriptor.FunctionOrder, fn.Name)
	}

	return descriptor, nil
}

func parseVisibility(value string) (m.Visibility, error) {
	switch m.Visibility(value) {
	case m.VisibilityPublic, m.VisibilityProtected, m.VisibilityPrivate:
		return m.Visibility(value), nil
	case "":
		// Sidecars may omit visibility for dialects that default to public.
		return m.VisibilityPublic, nil
	}

	return "", fmt.Errorf("unknown visibility %q", value)
}

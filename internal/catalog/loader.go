package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML catalog file and overlays it on base.
func LoadFile(path string, base Definition) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data, base)
}

// Parse decodes a YAML catalog document, overlays it on base and builds the
// result. Unknown keys are rejected so a misspelt section never passes
// silently.
func Parse(data []byte, base Definition) (*Catalog, error) {
	var over Definition

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&over); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return New(Overlay(base, over))
}

// Overlay merges over into base. Map entries replace entries with the same
// key, groups replace groups with the same name, and non-empty lists
// replace lists.
func Overlay(base, over Definition) Definition {
	out := Definition{
		DefaultYears:  pick(over.DefaultYears, base.DefaultYears),
		SubCategories: pick(over.SubCategories, base.SubCategories),
		States:        pick(over.States, base.States),
		ExamOrder:     pick(over.ExamOrder, base.ExamOrder),
		Exams:         make(map[string]ExamDefinition, len(base.Exams)+len(over.Exams)),
		Tags:          make(map[string]TagConfig, len(base.Tags)+len(over.Tags)),
		Colleges:      make(map[string]CollegeConfig, len(base.Colleges)+len(over.Colleges)),
	}

	for k, v := range base.Exams {
		out.Exams[k] = v
	}
	for k, v := range over.Exams {
		out.Exams[k] = v
	}

	// Tag names are case-insensitive, so key by the parsed tag when possible.
	tagKey := func(name string) string {
		if tag, ok := ParseCollegeTag(name); ok {
			return tag.String()
		}
		return name
	}
	for k, v := range base.Tags {
		out.Tags[tagKey(k)] = v
	}
	for k, v := range over.Tags {
		out.Tags[tagKey(k)] = v
	}

	for k, v := range base.Colleges {
		out.Colleges[normalizeSlug(k)] = v
	}
	for k, v := range over.Colleges {
		out.Colleges[normalizeSlug(k)] = v
	}

	replaced := make(map[string]bool, len(over.Groups))
	for _, g := range over.Groups {
		replaced[g.Name] = true
	}
	for _, g := range base.Groups {
		if !replaced[g.Name] {
			out.Groups = append(out.Groups, g)
		}
	}
	out.Groups = append(out.Groups, over.Groups...)

	return out
}

func pick(over, base []string) []string {
	if len(over) > 0 {
		return cloneStrings(over)
	}
	return cloneStrings(base)
}

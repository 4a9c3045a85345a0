package render

import (
	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/reqs/internal/engine/parser"
)

// ManifestDTO is the structured form of a parsed manifest.
type ManifestDTO struct {
	Path         string             `json:"path" yaml:"path"`
	Index        domain.IndexConfig `json:"index" yaml:"index"`
	Includes     []IncludeDTO       `json:"includes,omitempty" yaml:"includes,omitempty"`
	Requirements []RequirementDTO   `json:"requirements" yaml:"requirements"`
}

// IncludeDTO is a reference to another manifest.
type IncludeDTO struct {
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path" yaml:"path"`
	Line int    `json:"line" yaml:"line"`
}

// RequirementDTO is the structured form of a dependency record.
type RequirementDTO struct {
	Line       int      `json:"line" yaml:"line"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Extras     []string `json:"extras,omitempty" yaml:"extras,omitempty"`
	Specifiers []string `json:"specifiers,omitempty" yaml:"specifiers,omitempty"`
	URL        string   `json:"url,omitempty" yaml:"url,omitempty"`
	Marker     string   `json:"marker,omitempty" yaml:"marker,omitempty"`
	Hashes     []string `json:"hashes,omitempty" yaml:"hashes,omitempty"`
	Editable   bool     `json:"editable,omitempty" yaml:"editable,omitempty"`
	Comment    string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Canonical  string   `json:"canonical" yaml:"canonical"`
}

func toManifestDTO(m *domain.Manifest) ManifestDTO {
	dto := ManifestDTO{
		Path:         m.Path,
		Index:        m.Indexes(),
		Requirements: make([]RequirementDTO, 0, len(m.Entries)),
	}

	for _, inc := range m.Includes() {
		dto.Includes = append(dto.Includes, IncludeDTO{
			Kind: string(inc.Kind),
			Path: inc.Path,
			Line: inc.Line,
		})
	}

	for _, e := range m.Entries {
		if e.Kind != domain.EntryRequirement {
			continue
		}
		r := e.Requirement
		specs := make([]string, 0, len(r.Specifiers))
		for _, s := range r.Specifiers {
			specs = append(specs, s.String())
		}
		dto.Requirements = append(dto.Requirements, RequirementDTO{
			Line:       e.Line,
			Name:       r.Name.String(),
			Extras:     r.Extras,
			Specifiers: specs,
			URL:        r.URL,
			Marker:     r.Marker,
			Hashes:     r.Hashes,
			Editable:   r.Editable,
			Comment:    e.Comment,
			Canonical:  parser.FormatRequirement(r),
		})
	}

	return dto
}

package parser

import (
	"slices"
	"strings"

	"go.trai.ch/reqs/internal/core/domain"
)

// FormatRequirement renders a record in canonical form.
func FormatRequirement(r *domain.Requirement) string {
	var b strings.Builder

	if r.Editable {
		b.WriteString("-e ")
	}

	if r.Name.String() == "" || r.Editable {
		b.WriteString(r.URL)
		writeExtras(&b, r.Extras)
		if r.Marker != "" {
			b.WriteString(" ; ")
			b.WriteString(r.Marker)
		}
		writeHashes(&b, r.Hashes)
		return b.String()
	}

	b.WriteString(r.Name.String())
	writeExtras(&b, r.Extras)

	if r.IsDirect() {
		b.WriteString(" @ ")
		b.WriteString(r.URL)
		if r.Marker != "" {
			b.WriteString(" ; ")
			b.WriteString(r.Marker)
		}
	} else {
		for i, s := range r.Specifiers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s.String())
		}
		if r.Marker != "" {
			b.WriteString("; ")
			b.WriteString(r.Marker)
		}
	}

	writeHashes(&b, r.Hashes)
	return b.String()
}

func writeExtras(b *strings.Builder, extras []string) {
	if extras = canonicalExtras(extras); len(extras) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(extras, ","))
		b.WriteByte(']')
	}
}

func writeHashes(b *strings.Builder, hashes []string) {
	for _, h := range hashes {
		b.WriteString(" --hash=")
		b.WriteString(h)
	}
}

// canonicalExtras sorts extras and drops duplicates under name normalization.
func canonicalExtras(extras []string) []string {
	if len(extras) == 0 {
		return nil
	}
	out := slices.Clone(extras)
	slices.SortStableFunc(out, func(a, b string) int {
		return strings.Compare(domain.NormalizeName(a), domain.NormalizeName(b))
	})
	return slices.CompactFunc(out, func(a, b string) bool {
		return domain.NormalizeName(a) == domain.NormalizeName(b)
	})
}

// FormatOptions renders an option line.
func FormatOptions(opts []domain.Option) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = o.String()
	}
	return strings.Join(parts, " ")
}

// Format renders the manifest in canonical form. Comments are kept, runs
// of blank lines collapse to one and leading or trailing blanks are dropped.
func Format(m *domain.Manifest) string {
	var lines []string
	for _, e := range m.Entries {
		switch e.Kind {
		case domain.EntryBlank:
			if len(lines) > 0 && lines[len(lines)-1] != "" {
				lines = append(lines, "")
			}
		case domain.EntryComment:
			lines = append(lines, formatComment(e.Comment))
		case domain.EntryOptions:
			lines = append(lines, withComment(FormatOptions(e.Options), e.Comment))
		case domain.EntryRequirement:
			lines = append(lines, withComment(FormatRequirement(e.Requirement), e.Comment))
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Canonical renders only the options and records of the manifest, one per
// line. Two manifests with the same Canonical form declare the same
// dependencies.
func Canonical(m *domain.Manifest) string {
	var b strings.Builder
	for _, e := range m.Entries {
		switch e.Kind {
		case domain.EntryOptions:
			for _, o := range e.Options {
				b.WriteString(o.String())
				b.WriteByte('\n')
			}
		case domain.EntryRequirement:
			b.WriteString(FormatRequirement(e.Requirement))
			b.WriteByte('\n')
		default:
		}
	}
	return b.String()
}

func formatComment(c string) string {
	if c == "" {
		return "#"
	}
	return "# " + c
}

func withComment(line, comment string) string {
	if comment == "" {
		return line
	}
	return line + "  " + formatComment(comment)
}

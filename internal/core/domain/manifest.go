package domain

// EntryKind classifies a logical manifest line.
type EntryKind string

const (
	// EntryRequirement is a dependency specifier line.
	EntryRequirement EntryKind = "requirement"
	// EntryOptions is a line of installer options.
	EntryOptions EntryKind = "options"
	// EntryComment is a line holding only a comment.
	EntryComment EntryKind = "comment"
	// EntryBlank is an empty line.
	EntryBlank EntryKind = "blank"
)

// Entry is one logical line of a manifest.
type Entry struct {
	// Line is the 1-based number of the first physical line.
	Line int

	Kind        EntryKind
	Requirement *Requirement
	Options     []Option

	// Comment is the comment text without the leading '#'. On requirement
	// and option lines it is the trailing inline comment.
	Comment string
}

// Include is a reference from one manifest to another.
type Include struct {
	Kind OptionKind
	Path string
	Line int
}

// Manifest is a parsed dependency manifest.
type Manifest struct {
	Path    string
	Entries []Entry

	// Raw holds the bytes the manifest was parsed from.
	Raw []byte
}

// Requirements returns the dependency records in file order.
func (m *Manifest) Requirements() []*Requirement {
	var reqs []*Requirement
	for i := range m.Entries {
		if m.Entries[i].Kind == EntryRequirement {
			reqs = append(reqs, m.Entries[i].Requirement)
		}
	}
	return reqs
}

// Options returns all options in file order.
func (m *Manifest) Options() []Option {
	var opts []Option
	for _, e := range m.Entries {
		if e.Kind == EntryOptions {
			opts = append(opts, e.Options...)
		}
	}
	return opts
}

// Indexes collects the index directives of the manifest.
// A later --index-url overrides an earlier one.
func (m *Manifest) Indexes() IndexConfig {
	var cfg IndexConfig
	for _, o := range m.Options() {
		switch o.Kind {
		case OptionIndexURL:
			cfg.URL = o.Value
		case OptionExtraIndexURL:
			cfg.ExtraURLs = append(cfg.ExtraURLs, o.Value)
		case OptionFindLinks:
			cfg.FindLinks = append(cfg.FindLinks, o.Value)
		case OptionPre:
			cfg.Pre = true
		case OptionNoIndex:
			cfg.NoIndex = true
		default:
		}
	}
	return cfg
}

// Includes lists the -r and -c references of the manifest.
func (m *Manifest) Includes() []Include {
	var incs []Include
	for _, e := range m.Entries {
		if e.Kind != EntryOptions {
			continue
		}
		for _, o := range e.Options {
			if o.Kind.IsInclude() {
				incs = append(incs, Include{Kind: o.Kind, Path: o.Value, Line: e.Line})
			}
		}
	}
	return incs
}

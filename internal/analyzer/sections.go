package analyzer

import "strings"

// Sections is the parsed generator reply. Sectioned reports whether any
// marker line was found; when none is, the whole reply is carried as the
// psychological section so no text is lost.
type Sections struct {
	Sectioned     bool
	Psychological string
	Esoteric      string
	Advice        string
}

// Empty reports whether no text survived parsing at all.
func (s Sections) Empty() bool {
	return s.Psychological == "" && s.Esoteric == "" && s.Advice == ""
}

// Combined returns all section text joined, for validation scans.
func (s Sections) Combined() string {
	return strings.Join([]string{s.Psychological, s.Esoteric, s.Advice}, "\n")
}

// sectionMarker matches a marker alone on a line: optional leading
// decoration, the keyword, optional colon. Case-insensitive.
func sectionMarker(line string) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.Trim(trimmed, "*#-— ")
	trimmed = strings.TrimSuffix(trimmed, ":")
	switch strings.ToUpper(strings.TrimSpace(trimmed)) {
	case "PSYCH", "PSYCHOLOGICAL":
		return "PSYCH"
	case "ESOTERIC":
		return "ESOTERIC"
	case "ADVICE":
		return "ADVICE"
	}
	return ""
}

// splitSections scans the reply line by line and buckets text under the
// most recent marker. Text before the first marker is dropped only when
// markers exist; with no markers the entire reply becomes the
// psychological section.
func splitSections(raw string) Sections {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Sections{}
	}

	buckets := map[string][]string{}
	current := ""
	for _, line := range strings.Split(raw, "\n") {
		if marker := sectionMarker(line); marker != "" {
			current = marker
			continue
		}
		if current != "" {
			buckets[current] = append(buckets[current], line)
		}
	}

	if len(buckets) == 0 {
		return Sections{Psychological: raw}
	}

	join := func(key string) string {
		return strings.TrimSpace(strings.Join(buckets[key], "\n"))
	}
	return Sections{
		Sectioned:     true,
		Psychological: join("PSYCH"),
		Esoteric:      join("ESOTERIC"),
		Advice:        join("ADVICE"),
	}
}

package types

// PlaqueFields is the structured form of a museum plaque recovered from raw
// OCR text. It is a value: downstream stages copy from it, never write back.
type PlaqueFields struct {
	Author      string `json:"author"`
	LifeInfo    string `json:"life_info"`
	Title       string `json:"title"`
	Year        string `json:"year"`
	Medium      string `json:"medium"`
	Source      string `json:"source"`
	Description string `json:"description"`

	// ParseSuccess is true iff all seven fields above are non-empty.
	ParseSuccess bool `json:"parse_success"`
	// RawText is the verbatim parser input.
	RawText string `json:"raw_text"`
}

// Complete reports whether every semantic field has been filled.
func (f PlaqueFields) Complete() bool {
	return f.Author != "" &&
		f.LifeInfo != "" &&
		f.Title != "" &&
		f.Year != "" &&
		f.Medium != "" &&
		f.Source != "" &&
		f.Description != ""
}

// MissingFields returns the names of the semantic fields that are still empty.
func (f PlaqueFields) MissingFields() []string {
	var missing []string
	for _, nv := range [...]struct {
		name  string
		value string
	}{
		{"author", f.Author},
		{"life_info", f.LifeInfo},
		{"title", f.Title},
		{"year", f.Year},
		{"medium", f.Medium},
		{"source", f.Source},
		{"description", f.Description},
	} {
		if nv.value == "" {
			missing = append(missing, nv.name)
		}
	}
	return missing
}

// TranslatedPlaqueFields mirrors PlaqueFields after translation. Author and
// Year are identity fields and are carried through untranslated.
type TranslatedPlaqueFields struct {
	Author      string `json:"author"`
	LifeInfo    string `json:"life_info"`
	Title       string `json:"title"`
	Year        string `json:"year"`
	Medium      string `json:"medium"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

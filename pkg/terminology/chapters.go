package terminology

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Chapter is one of the 21 top-level diagnosis chapters presented to the
// operator, paired with the categorical code the prediction model was
// trained on. Chapters without a code (XX, XXI) encode to the empty string.
type Chapter struct {
	Label string `yaml:"label" json:"label"`
	Code  string `yaml:"code" json:"code"`
}

type Catalog struct {
	Chapters []Chapter `yaml:"chapters" json:"chapters"`

	codes map[string]string
}

// Load reads a chapter catalog from a YAML file, falling back to the
// compiled-in default when no path is given.
func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Chapters) == 0 {
		return Catalog{}, fmt.Errorf("chapter catalog empty")
	}
	cat.index()
	return cat, nil
}

func (c *Catalog) index() {
	c.codes = make(map[string]string, len(c.Chapters))
	for _, ch := range c.Chapters {
		if ch.Code != "" {
			c.codes[ch.Label] = ch.Code
		}
	}
}

// Code maps a human-readable chapter label to its model code. Labels with
// no code and unrecognized labels both map to "".
func (c Catalog) Code(label string) string {
	if c.codes == nil {
		return ""
	}
	return c.codes[label]
}

// Labels returns every chapter label in catalog order.
func (c Catalog) Labels() []string {
	labels := make([]string, len(c.Chapters))
	for i, ch := range c.Chapters {
		labels[i] = ch.Label
	}
	return labels
}

// DefaultCatalog is the chapter table the model was trained against. The
// letter sequence skips L, S and U-Y because the training data never
// contained those chapters.
func DefaultCatalog() Catalog {
	cat := Catalog{Chapters: []Chapter{
		{Label: "I - Infectious diseases", Code: "A"},
		{Label: "II - Neoplasms", Code: "B"},
		{Label: "III - Blood/immune disorders", Code: "C"},
		{Label: "IV - Endocrine/nutritional/metabolic", Code: "D"},
		{Label: "V - Mental disorders", Code: "E"},
		{Label: "VI - Nervous system", Code: "F"},
		{Label: "VII - Eye disorders", Code: "G"},
		{Label: "VIII - Ear disorders", Code: "H"},
		{Label: "IX - Circulatory system", Code: "I"},
		{Label: "X - Respiratory system", Code: "J"},
		{Label: "XI - Digestive system", Code: "K"},
		{Label: "XII - Skin disorders", Code: "M"},
		{Label: "XIII - Musculoskeletal system", Code: "N"},
		{Label: "XIV - Genitourinary system", Code: "O"},
		{Label: "XV - Pregnancy/childbirth", Code: "P"},
		{Label: "XVI - Perinatal conditions", Code: "Q"},
		{Label: "XVII - Congenital abnormalities", Code: "R"},
		{Label: "XVIII - Symptoms/signs", Code: "T"},
		{Label: "XIX - Injury/poisoning", Code: "Z"},
		{Label: "XX - External causes", Code: ""},
		{Label: "XXI - Health status factors", Code: ""},
	}}
	cat.index()
	return cat
}

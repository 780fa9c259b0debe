package rules

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed data/vocabulary.yaml
var vocabularyYAML []byte

// TermSet is an ordered vocabulary list bound to a label (category, product type, packaging type).
type TermSet struct {
	Label string   `yaml:"-"`
	Terms []string `yaml:"terms"`
}

type categorySet struct {
	Category string   `yaml:"category"`
	Terms    []string `yaml:"terms"`
}

type typeSet struct {
	Type  string   `yaml:"type"`
	Terms []string `yaml:"terms"`
}

// Brand is a canonical brand name with the surface forms it appears under in supplier titles.
type Brand struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type vocabularyFile struct {
	NoiseWords           []string          `yaml:"noise_words"`
	FilterNoiseWords     []string          `yaml:"filter_noise_words"`
	StopWords            []string          `yaml:"stop_words"`
	TagCategories        map[string]string `yaml:"tag_categories"`
	CategoryVocabularies []categorySet     `yaml:"category_vocabularies"`
	ProductTypes         []typeSet         `yaml:"product_types"`
	PackagingTypes       []typeSet         `yaml:"packaging_types"`
	Brands               []Brand           `yaml:"brands"`
	Vitolas              []string          `yaml:"vitolas"`
}

// Vocabulary holds every fixed word table the engine consults.
// It is read-only after construction and safe for concurrent use.
type Vocabulary struct {
	NoiseWords           map[string]struct{}
	FilterNoiseWords     []string // longest first
	StopWords            map[string]struct{}
	TagCategories        map[string]string
	CategoryVocabularies []TermSet
	ProductTypes         []TermSet
	PackagingTypes       []TermSet
	Brands               []Brand
	Vitolas              []string // longest first
}

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
)

// Default returns the embedded vocabulary. It panics if the embedded file is malformed.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		v, err := Parse(vocabularyYAML)
		if err != nil {
			panic(fmt.Sprintf("rules: embedded vocabulary: %v", err))
		}
		defaultVocab = v
	})
	return defaultVocab
}

// LoadFile reads a vocabulary override from disk.
func LoadFile(path string) (*Vocabulary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	v, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Parse decodes a vocabulary document.
func Parse(data []byte) (*Vocabulary, error) {
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	v := &Vocabulary{
		NoiseWords:       toSet(f.NoiseWords),
		FilterNoiseWords: longestFirst(lowerAll(f.FilterNoiseWords)),
		StopWords:        toSet(f.StopWords),
		TagCategories:    make(map[string]string, len(f.TagCategories)),
		Vitolas:          longestFirst(lowerAll(f.Vitolas)),
	}
	for tag, category := range f.TagCategories {
		v.TagCategories[strings.ToUpper(strings.TrimSpace(tag))] = strings.TrimSpace(category)
	}
	for _, cs := range f.CategoryVocabularies {
		v.CategoryVocabularies = append(v.CategoryVocabularies, TermSet{Label: cs.Category, Terms: lowerAll(cs.Terms)})
	}
	for _, ts := range f.ProductTypes {
		v.ProductTypes = append(v.ProductTypes, TermSet{Label: ts.Type, Terms: lowerAll(ts.Terms)})
	}
	for _, ts := range f.PackagingTypes {
		v.PackagingTypes = append(v.PackagingTypes, TermSet{Label: ts.Type, Terms: lowerAll(ts.Terms)})
	}
	for _, b := range f.Brands {
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("brand entry without name")
		}
		aliases := lowerAll(b.Aliases)
		if len(aliases) == 0 {
			aliases = []string{strings.ToLower(b.Name)}
		}
		v.Brands = append(v.Brands, Brand{Name: b.Name, Aliases: longestFirst(aliases)})
	}
	return v, nil
}

// IsNoiseWord reports whether w (already lower-cased) is removed by title normalization.
func (v *Vocabulary) IsNoiseWord(w string) bool {
	_, ok := v.NoiseWords[w]
	return ok
}

// IsStopWord reports whether w is an English stop word, case-insensitively.
func (v *Vocabulary) IsStopWord(w string) bool {
	_, ok := v.StopWords[strings.ToLower(w)]
	return ok
}

// CategoryForTag maps an upper-case term tag to its category name.
func (v *Vocabulary) CategoryForTag(tag string) (string, bool) {
	c, ok := v.TagCategories[tag]
	return c, ok
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toSet(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, s := range lowerAll(in) {
		set[s] = struct{}{}
	}
	return set
}

// longestFirst sorts by rune length descending, keeping file order among equal lengths.
func longestFirst(in []string) []string {
	sort.SliceStable(in, func(i, j int) bool {
		return utf8.RuneCountInString(in[i]) > utf8.RuneCountInString(in[j])
	})
	return in
}

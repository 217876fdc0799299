package config

import "fmt"

// ChapterKind selects the loader used for a chapter
type ChapterKind string

const (
	TextChapter       ChapterKind = "text"
	PrimerChapter     ChapterKind = "primer"
	ExcavationChapter ChapterKind = "excavation"
	AppendixAChapter  ChapterKind = "appendix-a"
	AppendixBChapter  ChapterKind = "appendix-b"
	ExternalChapter   ChapterKind = "external"
)

// ChapterConfig describes one top-level chapter of the generated site
type ChapterConfig struct {
	Name string      `toml:"name"`
	Kind ChapterKind `toml:"kind"`

	// Input is the JSON document of the chapter, relative to input.dir
	Input string `toml:"input"`

	// Descriptions is the second document of an excavation chapter
	Descriptions string `toml:"descriptions"`

	// Dir is the output directory below html/
	Dir string `toml:"dir"`

	// URL is the target of an external chapter
	URL string `toml:"url"`

	// Optional chapters are listed without pages when their input is missing
	Optional bool `toml:"optional"`
}

// DefaultChapters is the chapter order of the site when no [[chapter]]
// tables are configured. externalURL is the Electronic Dig target.
func DefaultChapters(externalURL string) []ChapterConfig {
	return []ChapterConfig{
		{Name: "Getting Started", Kind: TextChapter, Input: "gettingStarted.json", Dir: "gettingstarted", Optional: true},
		{Name: "Archaeology Primer", Kind: PrimerChapter, Input: "archaeologyPrimer.json", Dir: "archaeologyprimer", Optional: true},
		{Name: "Introduction", Kind: TextChapter, Input: "part0.json", Dir: "introduction"},
		{Name: "Contents", Kind: TextChapter, Input: "part1.json", Dir: "contents"},
		{Name: "Background", Kind: TextChapter, Input: "part2.json", Dir: "background"},
		{Name: "Excavations", Kind: ExcavationChapter, Input: "excavationsElements.json", Descriptions: "descriptions.json", Dir: "excavations"},
		{Name: "Artifacts", Kind: TextChapter, Input: "part3.json", Dir: "artifacts"},
		{Name: "Food Remains", Kind: TextChapter, Input: "part4.json", Dir: "foodremains"},
		{Name: "Interpretations", Kind: TextChapter, Input: "part5.json", Dir: "interpretations"},
		{Name: "Appendix A", Kind: AppendixAChapter, Input: "appendixA.json", Dir: "appendixa", Optional: true},
		{Name: "Appendix B", Kind: AppendixBChapter, Input: "appendixB.json", Dir: "appendixb", Optional: true},
		{Name: "Data Downloads", Kind: TextChapter, Input: "dataDownloads.json", Dir: "datadownloads", Optional: true},
		{Name: "Electronic Dig", Kind: ExternalChapter, URL: externalURL + "/"},
	}
}

// ChapterList returns the configured chapters, or the default order
func (c *Config) ChapterList() []ChapterConfig {
	if len(c.Chapters) > 0 {
		return c.Chapters
	}
	return DefaultChapters(c.Site.ExternalURL)
}

func (c *Config) validateChapters() error {
	for i, ch := range c.Chapters {
		if ch.Name == "" {
			return fmt.Errorf("chapter %d: missing name", i+1)
		}
		switch ch.Kind {
		case TextChapter, PrimerChapter, AppendixAChapter, AppendixBChapter:
			if ch.Input == "" || ch.Dir == "" {
				return fmt.Errorf("chapter %q: input and dir are required", ch.Name)
			}
		case ExcavationChapter:
			if ch.Input == "" || ch.Descriptions == "" || ch.Dir == "" {
				return fmt.Errorf("chapter %q: input, descriptions and dir are required", ch.Name)
			}
		case ExternalChapter:
			if ch.URL == "" {
				return fmt.Errorf("chapter %q: url is required", ch.Name)
			}
		default:
			return fmt.Errorf("chapter %q: unknown kind %q", ch.Name, ch.Kind)
		}
	}
	return nil
}

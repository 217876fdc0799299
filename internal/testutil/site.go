package testutil

import (
	"path/filepath"
	"testing"

	"github.com/geocine/digsite/internal/config"
	"github.com/spf13/afero"
)

// SampleInputDir is where SampleSite writes its JSON documents.
const SampleInputDir = "data"

// SampleConfig returns a configuration matching the documents written by
// SampleSite. Getting Started is configured but has no input.
func SampleConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Input.Dir = SampleInputDir
	cfg.Build.BuildDir = "out"
	cfg.Chapters = []config.ChapterConfig{
		{Name: "Getting Started", Kind: config.TextChapter, Input: "gettingStarted.json", Dir: "gettingstarted", Optional: true},
		{Name: "Archaeology Primer", Kind: config.PrimerChapter, Input: "archaeologyPrimer.json", Dir: "archaeologyprimer", Optional: true},
		{Name: "Introduction", Kind: config.TextChapter, Input: "part0.json", Dir: "introduction"},
		{Name: "Background", Kind: config.TextChapter, Input: "part2.json", Dir: "background"},
		{Name: "Excavations", Kind: config.ExcavationChapter, Input: "excavationsElements.json", Descriptions: "descriptions.json", Dir: "excavations"},
		{Name: "Appendix A", Kind: config.AppendixAChapter, Input: "appendixA.json", Dir: "appendixa", Optional: true},
		{Name: "Electronic Dig", Kind: config.ExternalChapter, URL: cfg.Site.ExternalURL + "/"},
	}
	return cfg
}

// SampleSite writes a small but complete set of extracted documents to
// fsys below SampleInputDir.
func SampleSite(t *testing.T, fsys afero.Fs) {
	t.Helper()
	for name, content := range sampleDocuments {
		WriteFile(t, fsys, filepath.Join(SampleInputDir, name), content)
	}
}

var sampleDocuments = map[string]string{
	"part0.json": `{
  "path": "/html/part0",
  "modules": [{"module": {
    "path": "/html/part0/body0_1.html",
    "shortTitle": "Front Matter",
    "fullTitle": "Front Matter",
    "author": "R. P. Stephen Davis",
    "sections": [
      {"name": "Foreword", "path": "/html/part0/body0_1.html", "pageNum": "i", "subsections": []},
      {"name": "Acknowledgments", "path": "/html/part0/body0_2.html", "pageNum": "ii", "subsections": [
        {"name": "Funding", "path": "/html/part0/body0_2a.html", "pageNum": "iii", "subsections": []}
      ]}
    ]
  }}],
  "pages": {
    "i": {"pageTitle": "Foreword", "parentModuleShortTitle": "Front Matter", "content": [
      {"type": "paragraph", "content": "See <a href=\"/html/part2/body2_1.html\">the land</a> and <a href=\"/html/part6/ref_ab.html\">Dickens</a>."}
    ]},
    "ii": {"pageTitle": "Acknowledgments", "parentModuleShortTitle": "Front Matter", "content": [
      {"type": "paragraph", "content": "<a href=\"../images/slid_210.html\">Figure 12</a>"},
      {"type": "italic-title", "content": "Thanks"}
    ]},
    "iii": {"pageTitle": "Funding", "parentModuleShortTitle": "Front Matter", "content": [
      {"type": "paragraph", "content": "A <a href=\"/html/video/trowel.mov\">clip</a>."}
    ]}
  }
}`,

	"part2.json": `{
  "path": "/html/part2",
  "modules": [{"module": {
    "path": "/html/part2/body2_1.html",
    "shortTitle": "Land",
    "fullTitle": "The Land and the River",
    "author": "Trawick Ward",
    "sections": [
      {"name": "The Land", "path": "/html/part2/body2_1.html", "pageNum": "1", "subsections": []},
      {"name": "The River", "path": "/html/part2/body2_2.html", "pageNum": "2", "subsections": []}
    ]
  }}],
  "pages": {
    "1": {"pageTitle": "The Land", "parentModuleShortTitle": "Land", "content": [
      {"type": "paragraph", "content": "Counts in <a href=\"/html/tables/table3.html\">Table 3</a>."}
    ]},
    "2": {"pageTitle": "The River", "parentModuleShortTitle": "Land", "content": [
      {"type": "paragraph", "content": "<a href=\"/html/part0/body0_1.html#top\">foreword</a> <a href=\"/html/version.html\">version</a> <a href=\"/html/javalaunch.html\">dig</a>"}
    ]}
  }
}`,

	"archaeologyPrimer.json": `{
  "path": "/html/primer",
  "videos": {"/html/primer/trowel.html": {"caption": "Trowelling", "path": "/html/video/trowel.mov"}},
  "modules": [{
    "path": "/html/primer/primer1.html",
    "shortTitle": "Primer",
    "fullTitle": "An Archaeology Primer",
    "author": "",
    "sections": [
      {"name": "What is Archaeology", "path": "/html/primer/primer1.html", "pageNum": "AP1", "subsections": []},
      {"name": "Stages", "path": "/html/primer/primer2.html", "pageNum": "AP2", "subsections": []}
    ]
  }],
  "pages": {
    "AP1": {"title": "What is Archaeology", "image": {"path": "/html/images/3/plate1.jpg", "caption": "A plate"}, "content": [
      {"type": "paragraph", "content": "Watch <a href=\"/html/primer/trowel.html\">trowelling</a>."}
    ]},
    "AP2": {"title": "Stages", "image": null, "content": [
      {"type": "ul", "content": "<ul><li><a href=\"primer2a.html\">Stage a</a></li></ul>",
       "pageToImgMap": {"primer2a.html": {"src": "/html/images/2/210r100.gif", "caption": "Stage a"}},
       "noImageCaption": "Click on a stage."}
    ]}
  }
}`,

	"excavationsElements.json": `[
  {"name": "Feature 1", "path": "/html/excavations/exc_f1.html", "miniMapIcon": "/html/images/x/f1map.gif",
   "artifactsPath": "/html/artifacts/art_f1.html", "descriptionPath": "/html/descriptions/desc1.html",
   "info": {"Dimensions": {"Length": "2.1 ft", "Width": "1.8 ft", "Depth": "0.9 ft"}, "Type": "Pit", "Volume": "3.4 cu ft", "Area": "3.8 sq ft"},
   "images": [{"figureNum": 12}]},
  {"name": "Sq. 240R60", "path": "/html/excavations/exc_sq.html", "miniMapIcon": "",
   "artifactsPath": "", "descriptionPath": "",
   "info": {"Dimensions": {"Length": "10 ft", "Width": "10 ft", "Depth": "1 ft"}, "Type": "Square", "Volume": "", "Area": "100 sq ft"},
   "images": []}
]`,

	"descriptions.json": `{
  "path": "/html/descriptions",
  "module": {"sections": [
    {"name": "Feature 10", "path": "/html/descriptions/desc10.html", "pageNum": "4", "subsections": []},
    {"name": "Feature 1", "path": "/html/descriptions/desc1.html", "pageNum": "3", "subsections": []}
  ]},
  "pages": {
    "3": {"pageTitle": "Feature 1", "content": [
      {"type": "paragraph", "content": "Next to <a href=\"/html/excavations/exc_sq.html\">the square</a>."}
    ]},
    "4": {"pageTitle": "Feature 10", "content": []}
  }
}`,

	"appendixA.json": `{
  "/html/excavations/exc_f1.html": {"name": "Feature 1", "pageNum": 0, "artifacts": [
    {"class": "Ceramics", "type": "Sherd", "count": 14},
    {"class": "Lithics", "type": "Flake", "count": "3"}
  ]}
}`,

	"images.json": `{
  "12": {"figureNum": 12, "caption": "Square 210R100", "path": "/html/images/2/210r100.gif",
         "htmlPagePath": "/html/images/slid_210.html", "originalDimensions": {"width": 640, "height": 480},
         "clickableAreas": [{"x1": 1, "y1": 2, "x2": 30, "y2": 40, "href": "/html/excavations/exc_f1.html"}]},
  "7": {"figureNum": 7, "caption": "Plate 1", "path": "/html/images/3/plate1.jpg",
        "htmlPagePath": "/html/images/slid_plate1.html", "originalDimensions": {"width": 300, "height": 200},
        "clickableAreas": []}
}`,

	"references.json": `{"Dickens": ["Dickens 1985. Excavations at Fredricks.", "Dickens 1987. Occaneechi Town."]}`,

	"refLetters.json": `{"ab": {"author": "Dickens", "refNum": 1}}`,

	"tables.json": `{"3": {"tableNum": 3, "caption": "Pottery counts", "table": "<table><tr><td><a href=\"tabimg_7.html\">thumb</a></td></tr></table>"}}`,

	"tablePaths.json": `{"/html/tables/table3.html": 3}`,

	"tableImages.json": `{"tabimg_7.html": 7}`,
}

package check

import (
	"testing"

	"github.com/geocine/digsite/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gateway = "https://electronicdig.sites.oasis.unc.edu"

func page(body string) string {
	return "<!DOCTYPE html><html><head><title>t</title></head><body>" + body + "</body></html>"
}

func run(t *testing.T, body string) *Report {
	t.Helper()
	fsys := testutil.MemFS(t, map[string]string{
		"out/html/index.html":                    page(`<a href="background/001_the_land.html">land</a>`),
		"out/html/background/001_the_land.html":  page(body),
		"out/html/background/002_the_river.html": page(""),
		"out/html/figures/figure_0007.html":      page(""),
	})
	report, err := New(fsys, "out/html", gateway, nil).Run()
	require.NoError(t, err)
	return report
}

func TestCheckAnchors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
		sev     Severity
	}{
		{"existing page", `<a href="002_the_river.html">river</a>`, "", ""},
		{"parent directory", `<a href="../figures/figure_0007.html#top">fig</a>`, "", ""},
		{"directory", `<a href=".">here</a>`, "", ""},
		{"rooted path", `<a href="/html/index.html">home</a>`, "", ""},
		{"missing page", `<a href="003_nowhere.html">x</a>`, "non-existent path", SeverityError},
		{"gateway", `<a href="` + gateway + `/views/tutorial1.html">tutorial</a>`, "", ""},
		{"foreign site", `<a href="https://example.com/">x</a>`, "external site other than the gateway", SeverityError},
		{"no href", `<a name="top">x</a>`, "anchor without href", SeverityError},
		{"fragment", `<a href="#section">x</a>`, "", ""},
		{"top", `<a href="#">x</a>`, "scrolls to top and does nothing else", SeverityWarning},
		{"bare modal", `<a href="#genModal">x</a>`, "points to #genModal without a modal class", SeverityError},
		{"version modal", `<a href="#versionModal" data-toggle="modal" data-target="#versionModal">v</a>`, "", ""},
		{"version modal without target", `<a href="#versionModal" data-toggle="modal">v</a>`, "version modal anchor missing a required attribute", SeverityError},
		{"image toggle", `<a href="javascript:void(0);" data-image-path="../../imgs/a.jpg" data-image-caption="A">a</a>`, "", ""},
		{"image toggle without caption", `<a href="javascript:void(0);" data-image-path="../../imgs/a.jpg">a</a>`, "no data-image-caption in image toggle", SeverityError},
		{"image", `<a class="a-img" href="../../imgs/a.jpg" data-src="../../imgs/a.jpg" data-sub-html="A">a</a>`, "", ""},
		{"image without caption", `<a class="a-img" href="../../imgs/a.jpg" data-src="../../imgs/a.jpg">a</a>`, "no data-sub-html in a-img", SeverityError},
		{"reference", `<a class="a-ref" href="#genModal" data-toggle="modal" data-target="#genModal" data-author="Dickens" data-ref-text="1987">r</a>`, "", ""},
		{"reference without toggle", `<a class="a-ref" href="#genModal" data-target="#genModal" data-author="Dickens" data-ref-text="1987">r</a>`, "no data-toggle for modal in a-ref", SeverityError},
		{"table without body", `<a class="a-table" href="#genModal" data-toggle="modal" data-target="#genModal" data-table-header="T">t</a>`, "no data-table-string in a-table", SeverityError},
		{"video without path", `<a class="a-video" href="#genModal" data-toggle="modal" data-target="#genModal" data-figure-caption="">v</a>`, "no data-figure-path in a-video", SeverityError},
		{"image map area", `<map><area href="../figures/figure_0099.html"></map>`, "non-existent path", SeverityError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report := run(t, tc.body)
			assert.Equal(t, 4, report.Pages)
			if tc.message == "" {
				assert.Empty(t, report.Problems)
				return
			}
			require.Len(t, report.Problems, 1)
			p := report.Problems[0]
			assert.Equal(t, "background/001_the_land.html", p.Page)
			assert.Equal(t, tc.message, p.Message)
			assert.Equal(t, tc.sev, p.Severity)
		})
	}
}

func TestReportErrors(t *testing.T) {
	report := run(t, `<a href="#">x</a><a href="missing.html">y</a><a href="https://example.com">z</a>`)

	assert.Len(t, report.Problems, 3)
	assert.Equal(t, 2, report.Errors())
	assert.Equal(t, 4, report.Anchors)
	assert.Contains(t, report.Problems[1].String(), "background/001_the_land.html: error: non-existent path")
	assert.Contains(t, report.Problems[1].Anchor, `href="missing.html"`)
}

func TestCheckMissingRoot(t *testing.T) {
	_, err := New(testutil.MemFS(t, nil), "out/html", gateway, nil).Run()
	assert.Error(t, err)
}

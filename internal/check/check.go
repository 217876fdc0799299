package check

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Severity of a reported problem
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is one suspicious anchor in a generated page
type Problem struct {
	Page     string
	Severity Severity
	Message  string
	Href     string
	Anchor   string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s %s", p.Page, p.Severity, p.Message, p.Anchor)
}

// Report summarizes a checker run
type Report struct {
	Pages    int
	Anchors  int
	Problems []Problem
}

// Errors counts the problems of error severity.
func (r *Report) Errors() int {
	n := 0
	for _, p := range r.Problems {
		if p.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Checker validates the anchors of a generated site. Dynamic anchors must
// carry the attributes the modal scripts read, external links must stay on
// the gateway host and every other link must exist on disk.
type Checker struct {
	fs      afero.Fs
	root    string
	gateway string
	logger  *slog.Logger
}

// New creates a checker for the build below root. gatewayURL is the only
// external site pages may link to.
func New(fsys afero.Fs, root, gatewayURL string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	host := gatewayURL
	if u, err := url.Parse(gatewayURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return &Checker{fs: fsys, root: root, gateway: host, logger: logger}
}

// Run parses every HTML page of the build and checks its anchors.
func (c *Checker) Run() (*Report, error) {
	report := &Report{}
	err := afero.Walk(c.fs, c.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(p) != ".html" {
			return nil
		}
		return c.checkPage(report, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", c.root, err)
	}
	c.logger.Info("links checked", "pages", report.Pages, "anchors", report.Anchors,
		"errors", report.Errors(), "warnings", len(report.Problems)-report.Errors())
	return report, nil
}

func (c *Checker) checkPage(report *Report, file string) error {
	f, err := c.fs.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	rel, err := filepath.Rel(c.root, file)
	if err != nil {
		rel = file
	}
	pc := &pageCheck{Checker: c, report: report, file: file, page: filepath.ToSlash(rel)}
	report.Pages++
	pc.walk(doc)
	return nil
}

type pageCheck struct {
	*Checker
	report *Report
	file   string
	page   string
}

func (pc *pageCheck) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.A:
			pc.report.Anchors++
			pc.anchor(n)
		case atom.Area:
			pc.report.Anchors++
			pc.link(n, attr(n, "href"))
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		pc.walk(child)
	}
}

func (pc *pageCheck) anchor(n *html.Node) {
	classes := strings.Fields(attr(n, "class"))
	switch {
	case hasClass(classes, "a-img"):
		pc.require(n, "a-img", "href", "data-src", "data-sub-html")
	case hasClass(classes, "a-ref"):
		pc.requireModal(n, "a-ref", "href", "data-target", "data-author", "data-ref-text")
	case hasClass(classes, "a-table"):
		pc.requireModal(n, "a-table", "href", "data-target", "data-table-header", "data-table-string")
	case hasClass(classes, "a-video"):
		pc.requireModal(n, "a-video", "href", "data-target", "data-figure-path", "data-figure-caption")
	case hasClass(classes, "a-table-img"):
		pc.requireModal(n, "a-table-img", "href", "data-target", "data-figure-path", "data-figure-caption")
	default:
		if !hasAttr(n, "href") {
			pc.problem(n, SeverityError, "anchor without href")
			return
		}
		pc.link(n, attr(n, "href"))
	}
}

func (pc *pageCheck) require(n *html.Node, class string, attrs ...string) {
	for _, a := range attrs {
		if !hasAttr(n, a) {
			pc.problem(n, SeverityError, fmt.Sprintf("no %s in %s", a, class))
		}
	}
}

func (pc *pageCheck) requireModal(n *html.Node, class string, attrs ...string) {
	pc.require(n, class, attrs...)
	if attr(n, "data-toggle") != "modal" {
		pc.problem(n, SeverityError, fmt.Sprintf("no data-toggle for modal in %s", class))
	}
}

// link checks a plain href.
func (pc *pageCheck) link(n *html.Node, href string) {
	switch {
	case strings.HasPrefix(href, "javascript:"):
		if hasAttr(n, "data-image-path") && !hasAttr(n, "data-image-caption") {
			pc.problem(n, SeverityError, "no data-image-caption in image toggle")
		}
		return
	case href == "#":
		pc.problem(n, SeverityWarning, "scrolls to top and does nothing else")
		return
	case href == "#genModal":
		pc.problem(n, SeverityError, "points to #genModal without a modal class")
		return
	case href == "#versionModal":
		if attr(n, "data-toggle") != "modal" || attr(n, "data-target") != "#versionModal" {
			pc.problem(n, SeverityError, "version modal anchor missing a required attribute")
		}
		return
	case strings.HasPrefix(href, "#"):
		return
	}

	u, err := url.Parse(href)
	if err != nil {
		pc.problem(n, SeverityError, "malformed href")
		return
	}
	switch u.Scheme {
	case "":
	case "http", "https":
		if u.Host != pc.gateway {
			pc.problem(n, SeverityError, "external site other than the gateway")
		}
		return
	case "mailto":
		return
	default:
		pc.problem(n, SeverityError, "unsupported scheme "+u.Scheme)
		return
	}
	if u.Path == "" {
		return
	}

	var target string
	if path.IsAbs(u.Path) {
		target = filepath.Join(filepath.Dir(pc.root), filepath.FromSlash(u.Path))
	} else {
		target = filepath.Join(filepath.Dir(pc.file), filepath.FromSlash(u.Path))
	}
	if ok, _ := afero.Exists(pc.fs, target); !ok {
		pc.problem(n, SeverityError, "non-existent path")
	}
}

func (pc *pageCheck) problem(n *html.Node, sev Severity, msg string) {
	p := Problem{
		Page:     pc.page,
		Severity: sev,
		Message:  msg,
		Href:     attr(n, "href"),
		Anchor:   render(n),
	}
	pc.report.Problems = append(pc.report.Problems, p)
	if sev == SeverityError {
		pc.logger.Error(msg, "page", p.Page, "href", p.Href)
	} else {
		pc.logger.Warn(msg, "page", p.Page, "href", p.Href)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func hasClass(classes []string, class string) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

// render returns the opening tag of n for problem reports.
func render(n *html.Node) string {
	var sb strings.Builder
	sb.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		v := a.Val
		if len(v) > 80 {
			v = v[:80] + "..."
		}
		fmt.Fprintf(&sb, " %s=%q", a.Key, v)
	}
	sb.WriteString(">")
	return sb.String()
}

package tables

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheme is one of the independent page-numbering spaces of the site.
type Scheme int

const (
	FrontMatter Scheme = iota
	Body
	GettingStarted
	Primer
	AppendixA
	AppendixB
	DataDownloads
)

// schemeOrder is the reading order used when pagination crosses from one
// numbering space into the next. The Getting Started pages and the primer
// sit between the front matter and the body, the same way they lead the
// navigation.
var schemeOrder = []Scheme{FrontMatter, GettingStarted, Primer, Body, AppendixA, AppendixB, DataDownloads}

var schemeNames = map[Scheme]string{
	FrontMatter:    "front matter",
	Body:           "body",
	GettingStarted: "getting started",
	Primer:         "archaeology primer",
	AppendixA:      "appendix a",
	AppendixB:      "appendix b",
	DataDownloads:  "data downloads",
}

func (s Scheme) String() string {
	if n, ok := schemeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// schemePrefixes lists the literal prefixes of the named schemes, longest
// first so that "Appendix A " is tried before shorter prefixes.
var schemePrefixes = []struct {
	prefix string
	scheme Scheme
}{
	{"Appendix A ", AppendixA},
	{"Appendix B ", AppendixB},
	{"Data ", DataDownloads},
	{"GS", GettingStarted},
	{"AP", Primer},
}

// PageKey identifies a page within its numbering scheme.
type PageKey struct {
	Scheme  Scheme
	Ordinal int
}

// ParsePageKey classifies a page-number string by its shape.
func ParsePageKey(s string) (PageKey, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return PageKey{}, fmt.Errorf("empty page number")
	}
	for _, p := range schemePrefixes {
		if !strings.HasPrefix(raw, p.prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(raw, p.prefix)))
		if err != nil || n < 1 {
			return PageKey{}, fmt.Errorf("invalid %s page number %q", p.scheme, s)
		}
		return PageKey{Scheme: p.scheme, Ordinal: n}, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 {
			return PageKey{}, fmt.Errorf("invalid page number %q", s)
		}
		return PageKey{Scheme: Body, Ordinal: n}, nil
	}
	if n, err := RomanToInt(raw); err == nil {
		return PageKey{Scheme: FrontMatter, Ordinal: n}, nil
	}
	return PageKey{}, fmt.Errorf("unrecognized page number %q", s)
}

// String returns the canonical display form of k.
func (k PageKey) String() string {
	switch k.Scheme {
	case FrontMatter:
		return IntToRoman(k.Ordinal)
	case Body:
		return strconv.Itoa(k.Ordinal)
	case GettingStarted:
		return "GS" + strconv.Itoa(k.Ordinal)
	case Primer:
		return "AP" + strconv.Itoa(k.Ordinal)
	case AppendixA:
		return "Appendix A " + strconv.Itoa(k.Ordinal)
	case AppendixB:
		return "Appendix B " + strconv.Itoa(k.Ordinal)
	case DataDownloads:
		return "Data " + strconv.Itoa(k.Ordinal)
	}
	return strconv.Itoa(k.Ordinal)
}

// FilePrefix returns the zero-padded prefix used in output file names.
func (k PageKey) FilePrefix() string {
	switch k.Scheme {
	case FrontMatter:
		return fmt.Sprintf("prelims_%02d", k.Ordinal)
	case GettingStarted:
		return fmt.Sprintf("gs_%02d", k.Ordinal)
	case Primer:
		return fmt.Sprintf("ap_%02d", k.Ordinal)
	case AppendixA:
		return fmt.Sprintf("apxa_%03d", k.Ordinal)
	case AppendixB:
		return fmt.Sprintf("apxb_%03d", k.Ordinal)
	case DataDownloads:
		return fmt.Sprintf("data_%02d", k.Ordinal)
	}
	return fmt.Sprintf("%03d", k.Ordinal)
}

// FilePrefix parses pageNum and returns its output file name prefix.
func FilePrefix(pageNum string) (string, error) {
	k, err := ParsePageKey(pageNum)
	if err != nil {
		return "", err
	}
	return k.FilePrefix(), nil
}

var romanValues = map[byte]int{'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100, 'd': 500, 'm': 1000}

// RomanToInt converts a lowercase or uppercase Roman numeral.
func RomanToInt(s string) (int, error) {
	s = strings.ToLower(s)
	if s == "" {
		return 0, fmt.Errorf("empty roman numeral")
	}
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0, fmt.Errorf("invalid roman numeral %q", s)
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	if IntToRoman(total) != s {
		return 0, fmt.Errorf("non-canonical roman numeral %q", s)
	}
	return total, nil
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// IntToRoman formats n as a lowercase Roman numeral.
func IntToRoman(n int) string {
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

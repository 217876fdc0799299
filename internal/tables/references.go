package tables

// RefPointer locates a citation inside an author's reference list.
type RefPointer struct {
	Author string `json:"author"`
	RefNum int    `json:"refNum"`
}

// Citation is a resolved bibliography entry.
type Citation struct {
	Author string
	Text   string
}

// ReferenceTable resolves the letter codes of old reference pages to
// citations.
type ReferenceTable struct {
	authors map[string][]string
	letters map[string]RefPointer
	sealed  bool
}

// NewReferenceTable returns an empty table.
func NewReferenceTable() *ReferenceTable {
	return &ReferenceTable{
		authors: make(map[string][]string),
		letters: make(map[string]RefPointer),
	}
}

// RegisterAuthor stores the citations of one author.
func (t *ReferenceTable) RegisterAuthor(author string, refs []string) {
	if t.sealed {
		panic("tables: reference registered after assembly finished: " + author)
	}
	if _, ok := t.authors[author]; ok {
		return
	}
	t.authors[author] = refs
}

// RegisterLetters maps an old letter code to a citation.
func (t *ReferenceTable) RegisterLetters(letters string, p RefPointer) {
	if t.sealed {
		panic("tables: reference registered after assembly finished: " + letters)
	}
	if _, ok := t.letters[letters]; ok {
		return
	}
	t.letters[letters] = p
}

// Seal stops the table from accepting registrations.
func (t *ReferenceTable) Seal() { t.sealed = true }

// ByLetters resolves an old letter code.
func (t *ReferenceTable) ByLetters(letters string) (Citation, bool) {
	p, ok := t.letters[letters]
	if !ok {
		return Citation{}, false
	}
	refs := t.authors[p.Author]
	if p.RefNum < 0 || p.RefNum >= len(refs) {
		return Citation{}, false
	}
	return Citation{Author: p.Author, Text: refs[p.RefNum]}, true
}

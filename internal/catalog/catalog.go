// Package catalog provides product name suggestions from a static catalog.
package catalog

import (
	"bufio"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxResults caps how many suggestions a single search returns.
const MaxResults = 8

// minTermLen mirrors the search box behavior: one-character terms are too
// noisy to suggest anything.
const minTermLen = 2

// Catalog is an immutable list of product names searchable by
// accent-insensitive, case-insensitive substring match.
type Catalog struct {
	names  []string
	folded []string
}

// New builds a catalog from the given names, keeping their order. Blank
// entries are dropped.
func New(names []string) *Catalog {
	c := &Catalog{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		c.names = append(c.names, n)
		c.folded = append(c.folded, fold(n))
	}
	return c
}

// LoadFromFile reads one product name per line, skipping blanks and
// '#'-comments. A missing or empty file falls back to a small built-in
// catalog so suggestions still work out of the box.
func LoadFromFile(path string) *Catalog {
	names := readLines(path)
	if len(names) == 0 {
		names = []string{"Tomate Italiano", "Banana Prata", "Alface Crespa"}
	}
	return New(names)
}

// Search returns up to MaxResults names containing the term, ignoring case
// and accents ("tomate" finds "Tomate Italiano", "bana" finds "Banana").
// Terms shorter than two runes return nothing.
func (c *Catalog) Search(term string) []string {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < minTermLen {
		return nil
	}
	needle := fold(term)

	var out []string
	for i, f := range c.folded {
		if strings.Contains(f, needle) {
			out = append(out, c.names[i])
			if len(out) == MaxResults {
				break
			}
		}
	}
	return out
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.names)
}

// fold lower-cases s and strips combining marks, so "Maçã" and "maca"
// compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

package extract

import (
	"bufio"
	"bytes"
	"fmt"
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"

	"md-link-check/internal/config"
	"md-link-check/internal/domain"
)

// Extractor finds link-shaped substrings in opaque text. It does not parse
// markup; the regular expression is the only notion of syntax it has.
type Extractor struct {
	pattern   *regexp.Regexp
	trimChars string
	group     bool
}

// New compiles pattern. When the expression has capture groups the first
// group is yielded instead of the whole match.
func New(pattern, trimChars string) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid link pattern %q: %w", config.ErrInvalidConfig, pattern, err)
	}

	return &Extractor{
		pattern:   re,
		trimChars: trimChars,
		group:     re.NumSubexp() > 0,
	}, nil
}

func NewFromConfig(cfg *config.Config) (*Extractor, error) {
	return New(cfg.LinkRegexp, cfg.TrimChars)
}

// Links lazily yields every match in text. Matches never overlap and
// scanning resumes at the end of the previous match. Offsets are kept
// absolute so anchors like \b and ^ see the whole text.
func (e *Extractor) Links(text []byte) iter.Seq[domain.Link] {
	return func(yield func(domain.Link) bool) {
		for _, loc := range e.pattern.FindAllSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if e.group && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}

			if link := e.trim(string(text[start:end])); link != "" {
				if !yield(domain.Link(link)) {
					return
				}
			}
		}
	}
}

// trim strips trailing delimiter characters but never empties the link.
func (e *Extractor) trim(s string) string {
	for {
		r, size := utf8.DecodeLastRuneInString(s)
		if size >= len(s) || !strings.ContainsRune(e.trimChars, r) {
			return s
		}
		s = s[:len(s)-size]
	}
}

// Lines yields every non-blank line of a plain link list, trimmed of
// surrounding whitespace.
func Lines(data []byte) iter.Seq[domain.Link] {
	return func(yield func(domain.Link) bool) {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(domain.Link(line)) {
				return
			}
		}
	}
}

// Blob picks the right sequence for the blob kind.
func (e *Extractor) Blob(b domain.Blob) iter.Seq[domain.Link] {
	if b.Kind == domain.BlobList {
		return Lines(b.Data)
	}
	return e.Links(b.Data)
}

package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/templui/bikeshare/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrPageNotFound = errors.New("page not found")

type ContentPage struct {
	Title   string
	Slug    string
	Content string
}

// ContentService serves markdown pages, preferring files in contentDir
// and falling back to the copies compiled into the binary.
type ContentService struct {
	sources []fs.FS
	parser  *markdown.Parser
}

func NewContentService(contentDir string, embedded fs.FS) *ContentService {
	var sources []fs.FS
	if contentDir != "" {
		sources = append(sources, os.DirFS(contentDir))
	}
	if embedded != nil {
		sources = append(sources, embedded)
	}

	return &ContentService{
		sources: sources,
		parser:  markdown.NewParser(),
	}
}

// Page loads <slug>.<locale>.md, then <slug>.md. Files are re-read on every
// call so edits show up without a restart.
func (s *ContentService) Page(slug, locale string) (*ContentPage, error) {
	if slug == "" || strings.ContainsAny(slug, `/\.`) {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, slug)
	}

	var names []string
	if locale != "" {
		names = append(names, slug+"."+locale+".md")
	}
	names = append(names, slug+".md")

	for _, src := range s.sources {
		for _, name := range names {
			source, err := fs.ReadFile(src, name)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", name, err)
			}
			return s.render(slug, locale, source)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrPageNotFound, slug)
}

func (s *ContentService) render(slug, locale string, source []byte) (*ContentPage, error) {
	html, meta, err := s.parser.ParseWithFrontmatter(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		// Generate title from slug
		tag, err := language.Parse(locale)
		if err != nil {
			tag = language.English
		}
		title = cases.Title(tag).String(strings.ReplaceAll(slug, "-", " "))
	}

	return &ContentPage{
		Title:   title,
		Slug:    slug,
		Content: string(html),
	}, nil
}

// Package outline splits generated outlines into chapters.
package outline

import (
	"strings"
)

// Parser extracts ordered chapter titles from outline text.
// Implementations must not deduplicate: repeated titles are returned as many times as they occur.
type Parser interface {
	Parse(text string) []string
}

// MarkerParser treats every line whose trimmed text starts with one of
// the markers as a chapter title.
type MarkerParser struct {
	markers []string
}

func NewMarkerParser(markers ...string) *MarkerParser {
	return &MarkerParser{markers: markers}
}

func (p *MarkerParser) Parse(text string) []string {
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, marker := range p.markers {
			if strings.HasPrefix(line, marker) {
				titles = append(titles, line)
				break
			}
		}
	}
	return titles
}

// Cleaner removes boilerplate phrases from generated text
type Cleaner struct {
	replacer *strings.Replacer
}

// DefaultBoilerplate lists courtesy phrases the model tends to wrap outlines in
var DefaultBoilerplate = []string{
	"Bien sûr ! ",
	"Bien sûr, ",
	"Voici un plan complet et très détaillé pour la formation ",
	"Sure! Here is ",
	"Certainly! Here is ",
	"Certainly! ",
}

func NewCleaner(phrases []string) *Cleaner {
	pairs := make([]string, 0, len(phrases)*2)
	for _, p := range phrases {
		if p == "" {
			continue
		}
		pairs = append(pairs, p, "")
	}
	return &Cleaner{replacer: strings.NewReplacer(pairs...)}
}

func (c *Cleaner) Clean(text string) string {
	return strings.TrimSpace(c.replacer.Replace(text))
}

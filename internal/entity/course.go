package entity

import (
	"fmt"
	"time"
)

const (
	MinChapterCount = 1
	MaxChapterCount = 15
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

func (d Difficulty) Validate() error {
	switch d {
	case "", DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return nil
	default:
		return fmt.Errorf("unknown difficulty: %s", d)
	}
}

// CourseSpec holds the parameters a course is generated from
type CourseSpec struct {
	Title        string     `json:"title"`
	Audience     string     `json:"audience"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
	Duration     string     `json:"duration"`
	ChapterCount int        `json:"chapter_count"`
	Objectives   string     `json:"objectives,omitempty"`
	Credit       string     `json:"credit,omitempty"`
}

// CourseOutline is the result of the first pipeline stage
type CourseOutline struct {
	Prompt        string   `json:"prompt,omitempty"` // refined prompt, set in refined mode only
	RawText       string   `json:"-"`
	Text          string   `json:"text"`
	ChapterTitles []string `json:"chapter_titles"`
}

type Chapter struct {
	Index   int    `json:"index"` // 1-based, outline order
	Title   string `json:"title"`
	Content string `json:"content"`
	Quiz    string `json:"quiz,omitempty"`
}

type CourseDocument struct {
	Title    string    `json:"title"`
	Duration string    `json:"duration"`
	Chapters []Chapter `json:"chapters"`
	Body     string    `json:"-"`
}

// Artifact is a rendered file kept for download
type Artifact struct {
	Name        string    `json:"name"`
	Path        string    `json:"path,omitempty"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

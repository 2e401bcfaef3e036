package models

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// JournalEntry is one dated journal record owned by one user.
// An ID of zero marks an entry that has not been saved yet.
type JournalEntry struct {
	ID             int64
	UserID         int64
	EntryDate      time.Time
	Title          string
	Content        string
	PrimaryMood    string
	SecondaryMood1 string
	SecondaryMood2 string
	MoodCategory   string
	Category       string
	// Tags is a delimiter-joined list, see TagList.
	Tags      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPersisted reports whether the entry has a store-assigned identifier.
func (e *JournalEntry) IsPersisted() bool {
	return e.ID > 0
}

// WordCount counts whitespace-delimited tokens of Content.
func (e *JournalEntry) WordCount() int {
	return len(strings.FieldsFunc(e.Content, isWordBreak))
}

// ReadingTime is the estimated reading time in whole minutes, rounded up.
func (e *JournalEntry) ReadingTime() int {
	return int(math.Ceil(float64(e.WordCount()) / WordsPerMinute))
}

// TagList splits Tags on commas and semicolons, trimming blanks.
func (e *JournalEntry) TagList() []string {
	parts := strings.FieldsFunc(e.Tags, func(r rune) bool { return r == ',' || r == ';' })
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// Moods returns the non-empty mood fields, primary first.
func (e *JournalEntry) Moods() []string {
	var moods []string
	for _, m := range []string{e.PrimaryMood, e.SecondaryMood1, e.SecondaryMood2} {
		if m != "" {
			moods = append(moods, m)
		}
	}
	return moods
}

func isWordBreak(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t' || unicode.IsSpace(r)
}

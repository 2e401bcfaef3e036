package models

const (
	// NoMoodData is reported as MostCommonMood when no entry has a mood.
	NoMoodData = "No data"
	// NoEntries is reported as LastEntryDate when the user has no entries.
	NoEntries = "No entries"
)

// Statistics aggregates a user's journal.
type Statistics struct {
	TotalEntries   int
	TotalWords     int
	AverageWords   int
	CurrentStreak  int
	MostCommonMood string
	// LastEntryDate is formatted as YYYY-MM-DD.
	LastEntryDate string
}

// EmptyStatistics is the rendering for a user without data.
func EmptyStatistics() Statistics {
	return Statistics{MostCommonMood: NoMoodData, LastEntryDate: NoEntries}
}

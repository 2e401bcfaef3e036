package models

import "strings"

const (
	MoodCategoryPositive = "Positive"
	MoodCategoryNeutral  = "Neutral"
	MoodCategoryNegative = "Negative"
)

var moodCategories = map[string]string{
	"happy":     MoodCategoryPositive,
	"excited":   MoodCategoryPositive,
	"relaxed":   MoodCategoryPositive,
	"grateful":  MoodCategoryPositive,
	"confident": MoodCategoryPositive,
	"joyful":    MoodCategoryPositive,
	"hopeful":   MoodCategoryPositive,
	"proud":     MoodCategoryPositive,

	"calm":       MoodCategoryNeutral,
	"thoughtful": MoodCategoryNeutral,
	"curious":    MoodCategoryNeutral,
	"nostalgic":  MoodCategoryNeutral,
	"bored":      MoodCategoryNeutral,
	"tired":      MoodCategoryNeutral,

	"sad":        MoodCategoryNegative,
	"angry":      MoodCategoryNegative,
	"stressed":   MoodCategoryNegative,
	"lonely":     MoodCategoryNegative,
	"anxious":    MoodCategoryNegative,
	"frustrated": MoodCategoryNegative,
	"upset":      MoodCategoryNegative,
}

// CategorizeMood maps a mood to its coarse category. Unknown moods map to "".
func CategorizeMood(mood string) string {
	return moodCategories[strings.ToLower(strings.TrimSpace(mood))]
}

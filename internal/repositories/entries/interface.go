package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/models"
)

// Repository describes persistence and query operations for journal entries.
// Lists are ordered by entry date descending, newest id first on ties.
type Repository interface {
	// Insert stores a new entry and assigns entry.ID.
	Insert(ctx context.Context, entry *models.JournalEntry) error

	// Update overwrites the mutable fields of the row with entry.ID and
	// loads the stored owner and creation time back into entry. The owner
	// column is never rewritten. Returns common.ErrorNotFound when no such
	// row exists within owner's scope.
	Update(ctx context.Context, entry *models.JournalEntry, owner models.Owner) error

	// GetByID returns the entry or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64, owner models.Owner) (*models.JournalEntry, error)

	// List returns every entry matching owner.
	List(ctx context.Context, owner models.Owner) ([]models.JournalEntry, error)

	// ListByDateRange returns the user's entries dated within [from, to],
	// comparing calendar dates only.
	ListByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]models.JournalEntry, error)

	// GetForDate returns the user's entry whose stored date starts with the
	// YYYY-MM-DD form of day, or common.ErrorNotFound.
	GetForDate(ctx context.Context, userID int64, day time.Time) (*models.JournalEntry, error)

	// ListByMood matches mood exactly against the primary and both
	// secondary moods.
	ListByMood(ctx context.Context, userID int64, mood string) ([]models.JournalEntry, error)

	// ListByTag matches tag as a substring of the tag string.
	ListByTag(ctx context.Context, userID int64, tag string) ([]models.JournalEntry, error)

	// Search matches term case-insensitively against title, content and tags.
	Search(ctx context.Context, userID int64, term string) ([]models.JournalEntry, error)

	// Delete removes the entry and reports whether a row was removed.
	Delete(ctx context.Context, id int64, owner models.Owner) (bool, error)

	// DeleteAllForUser removes every entry of the user and returns the count.
	DeleteAllForUser(ctx context.Context, userID int64) (int64, error)

	// Count returns the number of entries of the user.
	Count(ctx context.Context, userID int64) (int, error)

	// Categories returns the distinct non-empty categories, lexically ordered.
	Categories(ctx context.Context, userID int64) ([]string, error)

	// Moods returns the distinct non-empty primary and secondary moods,
	// lexically ordered.
	Moods(ctx context.Context, userID int64) ([]string, error)

	// MostCommonMood returns the most frequent primary mood, the lexically
	// smallest one on ties, or common.ErrorNotFound when none is set.
	MostCommonMood(ctx context.Context, userID int64) (string, error)

	// Describe reports the table's columns and row count.
	Describe(ctx context.Context) (*TableInfo, error)
}

// TableInfo describes the entries table.
type TableInfo struct {
	Columns []ColumnInfo
	Rows    int
}

// ColumnInfo is one row of PRAGMA table_info.
type ColumnInfo struct {
	Name    string
	Type    string
	NotNull bool
	Default string
	Primary bool
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/datex"
	"github.com/dmitrijs2005/gophjournal/internal/filex"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
)

// EntryStore persists and queries journal entries.
type EntryStore struct {
	db    DatabaseHandle
	repos repomanager.RepositoryManager
	log   logging.Logger
	now   func() time.Time
}

func NewEntryStore(db DatabaseHandle, repos repomanager.RepositoryManager, log logging.Logger, opts ...Option) *EntryStore {
	o := applyOptions(opts)
	return &EntryStore{db: db, repos: repos, log: logging.ForComponent(log, "entries"), now: o.now}
}

func (s *EntryStore) repo() entries.Repository {
	return s.repos.Entries(s.db.DB())
}

func (s *EntryStore) today() time.Time {
	return datex.DateOnly(s.now())
}

// Save inserts a new entry (ID zero) or updates an existing one. A scoped
// owner overwrites entry.UserID on insert and limits an update to that
// owner's rows; updating a row outside the scope returns
// common.ErrorNotFound. A zero entry date defaults to today. On return the
// entry carries its identifier, owner and timestamps.
func (s *EntryStore) Save(ctx context.Context, entry *models.JournalEntry, owner models.Owner) error {
	if entry == nil {
		return fmt.Errorf("save entry: %w", common.ErrorValidation)
	}
	if id, ok := owner.UserID(); ok {
		entry.UserID = id
	}
	if entry.EntryDate.IsZero() {
		entry.EntryDate = s.today()
	}
	entry.EntryDate = datex.DateOnly(entry.EntryDate)
	if entry.MoodCategory == "" && entry.PrimaryMood != "" {
		entry.MoodCategory = models.CategorizeMood(entry.PrimaryMood)
	}

	now := s.now().Truncate(time.Second)
	repo := s.repo()

	if !entry.IsPersisted() {
		entry.ID = 0
		entry.CreatedAt = now
		entry.UpdatedAt = now
		if err := repo.Insert(ctx, entry); err != nil {
			s.log.Error(ctx, "save failed", "op", "Save", "user_id", entry.UserID, "error", err)
			return err
		}
		s.log.Debug(ctx, "entry inserted", "op", "Save", "entry_id", entry.ID, "user_id", entry.UserID)
		return nil
	}

	entry.UpdatedAt = now
	if err := repo.Update(ctx, entry, owner); err != nil {
		s.log.Error(ctx, "save failed", "op", "Save", "entry_id", entry.ID, "user_id", entry.UserID, "error", err)
		return err
	}
	s.log.Debug(ctx, "entry updated", "op", "Save", "entry_id", entry.ID, "user_id", entry.UserID)
	return nil
}

// GetByID returns the entry, or a nil Value when it does not exist or is
// not owned by owner.
func (s *EntryStore) GetByID(ctx context.Context, id int64, owner models.Owner) Result[*models.JournalEntry] {
	return read[*models.JournalEntry](ctx, s.log, "GetByID", nil, func() (*models.JournalEntry, error) {
		return notFoundAsNil(s.repo().GetByID(ctx, id, owner))
	}, "entry_id", id)
}

func (s *EntryStore) GetAllForUser(ctx context.Context, userID int64) Result[[]models.JournalEntry] {
	return s.list(ctx, "GetAllForUser", userID, func(r entries.Repository) ([]models.JournalEntry, error) {
		return r.List(ctx, models.OwnedBy(userID))
	})
}

// GetAllEntries lists entries of owner, or of every user when unscoped.
func (s *EntryStore) GetAllEntries(ctx context.Context, owner models.Owner) Result[[]models.JournalEntry] {
	return read(ctx, s.log, "GetAllEntries", []models.JournalEntry{}, func() ([]models.JournalEntry, error) {
		return s.repo().List(ctx, owner)
	})
}

// GetByDateRange returns the user's entries dated within the calendar dates
// of start and end, inclusive. When the SQL path fails the user's entries
// are filtered in memory with FilterByDateRange, which yields the same order.
func (s *EntryStore) GetByDateRange(ctx context.Context, start, end time.Time, userID int64) Result[[]models.JournalEntry] {
	from, to := datex.DateOnly(start), datex.DateOnly(end)

	list, err := s.repo().ListByDateRange(ctx, userID, from, to)
	if err == nil {
		return Result[[]models.JournalEntry]{Value: list}
	}

	lvl := s.log.Warn
	if !errors.Is(err, entries.ErrUntrustedDates) {
		lvl = s.log.Error
	}
	lvl(ctx, "date range query failed, filtering in memory",
		"op", "GetByDateRange", "user_id", userID, "error", err)

	return s.list(ctx, "GetByDateRange", userID, func(r entries.Repository) ([]models.JournalEntry, error) {
		all, err := r.List(ctx, models.OwnedBy(userID))
		if err != nil {
			return nil, err
		}
		return FilterByDateRange(all, from, to), nil
	})
}

// FilterByDateRange keeps the entries whose calendar date lies within
// [start, end] and orders them by date descending, newest id first.
func FilterByDateRange(list []models.JournalEntry, start, end time.Time) []models.JournalEntry {
	from, to := datex.DateOnly(start), datex.DateOnly(end)

	out := make([]models.JournalEntry, 0, len(list))
	for _, e := range list {
		d := datex.DateOnly(e.EntryDate)
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := datex.DateOnly(out[i].EntryDate), datex.DateOnly(out[j].EntryDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// GetForDate returns the user's entry for the calendar date of date.
func (s *EntryStore) GetForDate(ctx context.Context, date time.Time, userID int64) Result[*models.JournalEntry] {
	return read[*models.JournalEntry](ctx, s.log, "GetForDate", nil, func() (*models.JournalEntry, error) {
		return notFoundAsNil(s.repo().GetForDate(ctx, userID, date))
	}, "user_id", userID, "date", datex.FormatDate(date))
}

func (s *EntryStore) GetByMood(ctx context.Context, mood string, userID int64) Result[[]models.JournalEntry] {
	return s.list(ctx, "GetByMood", userID, func(r entries.Repository) ([]models.JournalEntry, error) {
		return r.ListByMood(ctx, userID, mood)
	})
}

func (s *EntryStore) GetByTag(ctx context.Context, tag string, userID int64) Result[[]models.JournalEntry] {
	return s.list(ctx, "GetByTag", userID, func(r entries.Repository) ([]models.JournalEntry, error) {
		return r.ListByTag(ctx, userID, tag)
	})
}

func (s *EntryStore) Search(ctx context.Context, term string, userID int64) Result[[]models.JournalEntry] {
	return s.list(ctx, "Search", userID, func(r entries.Repository) ([]models.JournalEntry, error) {
		return r.Search(ctx, userID, term)
	})
}

// Delete removes the entry and reports whether a row was removed.
func (s *EntryStore) Delete(ctx context.Context, id int64, owner models.Owner) (bool, error) {
	removed, err := s.repo().Delete(ctx, id, owner)
	if err != nil {
		s.log.Error(ctx, "delete failed", "op", "Delete", "entry_id", id, "error", err)
		return false, err
	}
	return removed, nil
}

func (s *EntryStore) GetUserCategories(ctx context.Context, userID int64) Result[[]string] {
	return read(ctx, s.log, "GetUserCategories", []string{}, func() ([]string, error) {
		return s.repo().Categories(ctx, userID)
	}, "user_id", userID)
}

func (s *EntryStore) GetUserMoods(ctx context.Context, userID int64) Result[[]string] {
	return read(ctx, s.log, "GetUserMoods", []string{}, func() ([]string, error) {
		return s.repo().Moods(ctx, userID)
	}, "user_id", userID)
}

// GetMostCommonMood returns the most frequent primary mood, or "" when no
// entry has one.
func (s *EntryStore) GetMostCommonMood(ctx context.Context, userID int64) Result[string] {
	return read(ctx, s.log, "GetMostCommonMood", "", func() (string, error) {
		mood, err := s.repo().MostCommonMood(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return mood, err
	}, "user_id", userID)
}

// GetStreakCount counts consecutive days with an entry, ending today.
func (s *EntryStore) GetStreakCount(ctx context.Context, userID int64) Result[int] {
	return read(ctx, s.log, "GetStreakCount", 0, func() (int, error) {
		list, err := s.repo().List(ctx, models.OwnedBy(userID))
		if err != nil {
			return 0, err
		}
		return streak(list, s.today()), nil
	}, "user_id", userID)
}

func streak(list []models.JournalEntry, today time.Time) int {
	days := make(map[string]struct{}, len(list))
	for _, e := range list {
		days[datex.FormatDate(e.EntryDate)] = struct{}{}
	}

	n := 0
	for d := datex.DateOnly(today); ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[datex.FormatDate(d)]; !ok {
			return n
		}
		n++
	}
}

// GetStatistics aggregates the user's journal. A degraded result carries
// models.EmptyStatistics.
func (s *EntryStore) GetStatistics(ctx context.Context, userID int64) Result[models.Statistics] {
	return read(ctx, s.log, "GetStatistics", models.EmptyStatistics(), func() (models.Statistics, error) {
		repo := s.repo()

		list, err := repo.List(ctx, models.OwnedBy(userID))
		if err != nil {
			return models.Statistics{}, err
		}

		stats := models.EmptyStatistics()
		stats.TotalEntries = len(list)
		for i := range list {
			stats.TotalWords += list[i].WordCount()
		}
		if stats.TotalEntries > 0 {
			stats.AverageWords = stats.TotalWords / stats.TotalEntries
		}
		stats.CurrentStreak = streak(list, s.today())

		mood, err := repo.MostCommonMood(ctx, userID)
		switch {
		case err == nil:
			stats.MostCommonMood = mood
		case !errors.Is(err, common.ErrorNotFound):
			return models.Statistics{}, err
		}

		if last, ok := latestDate(list); ok {
			stats.LastEntryDate = datex.FormatDate(last)
		}
		return stats, nil
	}, "user_id", userID)
}

func latestDate(list []models.JournalEntry) (time.Time, bool) {
	var last time.Time
	for _, e := range list {
		if d := datex.DateOnly(e.EntryDate); d.After(last) {
			last = d
		}
	}
	return last, len(list) > 0
}

// CountForUser returns the number of the user's entries.
func (s *EntryStore) CountForUser(ctx context.Context, userID int64) Result[int] {
	return read(ctx, s.log, "CountForUser", 0, func() (int, error) {
		return s.repo().Count(ctx, userID)
	}, "user_id", userID)
}

// GetLastEntryDate returns the most recent entry date, or nil when the user
// has no entries.
func (s *EntryStore) GetLastEntryDate(ctx context.Context, userID int64) Result[*time.Time] {
	return read[*time.Time](ctx, s.log, "GetLastEntryDate", nil, func() (*time.Time, error) {
		list, err := s.repo().List(ctx, models.OwnedBy(userID))
		if err != nil {
			return nil, err
		}
		last, ok := latestDate(list)
		if !ok {
			return nil, nil
		}
		return &last, nil
	}, "user_id", userID)
}

// ClearUserEntries deletes every entry of the user and returns the count.
func (s *EntryStore) ClearUserEntries(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo().DeleteAllForUser(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "clear failed", "op", "ClearUserEntries", "user_id", userID, "error", err)
		return 0, err
	}
	s.log.Info(ctx, "entries cleared", "op", "ClearUserEntries", "user_id", userID, "count", n)
	return n, nil
}

// DescribeSchema reports the entries table layout and row count.
func (s *EntryStore) DescribeSchema(ctx context.Context) Result[*entries.TableInfo] {
	return read[*entries.TableInfo](ctx, s.log, "DescribeSchema", nil, func() (*entries.TableInfo, error) {
		return s.repo().Describe(ctx)
	})
}

// Backup copies the database file to path, creating parent directories.
// The database is closed during the copy and reopened afterwards.
func (s *EntryStore) Backup(ctx context.Context, path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("backup path: %w", common.ErrorValidation)
	}

	err := s.db.Release(ctx, func(src string) error {
		return filex.CopyFile(src, path)
	})
	if err != nil {
		s.log.Error(ctx, "backup failed", "op", "Backup", "path", path, "error", err)
		return false, err
	}

	s.log.Info(ctx, "backup written", "op", "Backup", "path", path)
	return true, nil
}

func (s *EntryStore) list(ctx context.Context, op string, userID int64, fn func(entries.Repository) ([]models.JournalEntry, error)) Result[[]models.JournalEntry] {
	return read(ctx, s.log, op, []models.JournalEntry{}, func() ([]models.JournalEntry, error) {
		return fn(s.repo())
	}, "user_id", userID)
}

func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return v, err
}

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/repositories/repomanager"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func TestSave_InsertAssignsIDAndTimestamps(t *testing.T) {
	clock := newTestClock(noon)
	s, _ := newEntryStore(t, clock)
	ctx := context.Background()

	e := &models.JournalEntry{Title: "t", Content: "c", PrimaryMood: "happy"}
	require.NoError(t, s.Save(ctx, e, models.OwnedBy(5)))

	assert.Positive(t, e.ID)
	assert.Equal(t, int64(5), e.UserID)
	assert.True(t, e.EntryDate.Equal(day(2024, 6, 15)), "date defaults to today")
	assert.True(t, e.CreatedAt.Equal(noon))
	assert.True(t, e.UpdatedAt.Equal(noon))
	assert.Equal(t, models.MoodCategoryPositive, e.MoodCategory)
}

func TestSave_RoundTripPreservesFields(t *testing.T) {
	clock := newTestClock(noon)
	s, _ := newEntryStore(t, clock)
	ctx := context.Background()

	tests := []struct {
		words   int
		minutes int
	}{{250, 2}, {200, 1}, {0, 0}}

	for _, tt := range tests {
		e := &models.JournalEntry{
			EntryDate:      day(2024, 6, 1),
			Title:          "Title",
			Content:        words(tt.words),
			PrimaryMood:    "calm",
			SecondaryMood1: "tired",
			SecondaryMood2: "curious",
			MoodCategory:   "Custom",
			Category:       "Work",
			Tags:           "a,b",
		}
		require.NoError(t, s.Save(ctx, e, models.OwnedBy(1)))

		got := s.GetByID(ctx, e.ID, models.OwnedBy(1))
		require.NoError(t, got.Err)
		require.NotNil(t, got.Value)
		if diff := cmp.Diff(e, got.Value); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, tt.minutes, got.Value.ReadingTime())
		assert.Equal(t, "Custom", got.Value.MoodCategory, "explicit category is kept")
	}
}

func TestSave_TwiceChangesOnlyUpdatedAt(t *testing.T) {
	clock := newTestClock(noon)
	s, _ := newEntryStore(t, clock)
	ctx := context.Background()

	e := &models.JournalEntry{EntryDate: day(2024, 6, 10), Title: "same", Content: "text", Tags: "x"}
	require.NoError(t, s.Save(ctx, e, models.OwnedBy(1)))

	clock.Advance(time.Minute)
	require.NoError(t, s.Save(ctx, e, models.AnyOwner()))
	first := s.GetByID(ctx, e.ID, models.OwnedBy(1)).Value
	require.NotNil(t, first)

	clock.Advance(time.Minute)
	require.NoError(t, s.Save(ctx, e, models.AnyOwner()))
	second := s.GetByID(ctx, e.ID, models.OwnedBy(1)).Value
	require.NotNil(t, second)

	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(models.JournalEntry{}, "UpdatedAt")); diff != "" {
		t.Fatalf("unexpected change (-first +second):\n%s", diff)
	}
	assert.True(t, second.UpdatedAt.Equal(noon.Add(2*time.Minute)))
	assert.True(t, second.CreatedAt.Equal(noon))
	assert.True(t, first.UpdatedAt.Before(second.UpdatedAt))
}

func TestSave_UpdateOfMissingEntryFails(t *testing.T) {
	s, _ := newEntryStore(t, newTestClock(noon))

	err := s.Save(context.Background(), &models.JournalEntry{ID: 999, Title: "ghost"}, models.OwnedBy(1))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.Save(context.Background(), nil, models.AnyOwner()), common.ErrorValidation)
}

func TestOwnershipIsolation(t *testing.T) {
	s, _ := newEntryStore(t, newTestClock(noon))
	ctx := context.Background()

	alice := &models.JournalEntry{EntryDate: day(2024, 6, 15), Title: "alice diary", Content: "secret",
		PrimaryMood: "happy", Category: "Home", Tags: "private"}
	require.NoError(t, s.Save(ctx, alice, models.OwnedBy(1)))

	const bob = int64(2)

	assert.Nil(t, s.GetByID(ctx, alice.ID, models.OwnedBy(bob)).Value)
	assert.Empty(t, s.GetAllForUser(ctx, bob).Value)
	assert.Empty(t, s.GetByDateRange(ctx, day(2024, 1, 1), day(2024, 12, 31), bob).Value)
	assert.Nil(t, s.GetForDate(ctx, day(2024, 6, 15), bob).Value)
	assert.Empty(t, s.GetByMood(ctx, "happy", bob).Value)
	assert.Empty(t, s.GetByTag(ctx, "private", bob).Value)
	assert.Empty(t, s.Search(ctx, "secret", bob).Value)
	assert.Empty(t, s.GetUserCategories(ctx, bob).Value)
	assert.Empty(t, s.GetUserMoods(ctx, bob).Value)
	assert.Equal(t, "", s.GetMostCommonMood(ctx, bob).Value)
	assert.Equal(t, 0, s.GetStreakCount(ctx, bob).Value)
	assert.Equal(t, 0, s.CountForUser(ctx, bob).Value)

	removed, err := s.Delete(ctx, alice.ID, models.OwnedBy(bob))
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Len(t, s.GetAllEntries(ctx, models.AnyOwner()).Value, 1)
	assert.Len(t, s.GetAllForUser(ctx, 1).Value, 1)
	assert.NotNil(t, s.GetForDate(ctx, day(2024, 6, 15), 1).Value)

	bobs := &models.JournalEntry{EntryDate: day(2024, 6, 14), Title: "bob diary"}
	require.NoError(t, s.Save(ctx, bobs, models.OwnedBy(bob)))

	takeover := &models.JournalEntry{ID: bobs.ID, Title: "owned by alice now"}
	err = s.Save(ctx, takeover, models.OwnedBy(1))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	kept := s.GetByID(ctx, bobs.ID, models.OwnedBy(bob)).Value
	require.NotNil(t, kept)
	assert.Equal(t, bob, kept.UserID)
	assert.Equal(t, "bob diary", kept.Title)
	assert.Nil(t, s.GetByID(ctx, bobs.ID, models.OwnedBy(1)).Value)
}

func TestGetStreakCount(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{name: "three consecutive days", days: []int{0, 1, 2}, want: 3},
		{name: "gap after today", days: []int{0, 2}, want: 1},
		{name: "nothing today", days: []int{1, 2}, want: 0},
		{name: "no entries", days: nil, want: 0},
		{name: "duplicate dates count once", days: []int{0, 0, 1}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newEntryStore(t, newTestClock(noon))
			ctx := context.Background()

			for _, back := range tt.days {
				e := &models.JournalEntry{EntryDate: day(2024, 6, 15).AddDate(0, 0, -back), Title: "d"}
				require.NoError(t, s.Save(ctx, e, models.OwnedBy(1)))
			}

			got := s.GetStreakCount(ctx, 1)
			require.NoError(t, got.Err)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestGetStatistics(t *testing.T) {
	s, _ := newEntryStore(t, newTestClock(noon))
	ctx := context.Background()

	empty := s.GetStatistics(ctx, 1)
	require.NoError(t, empty.Err)
	assert.Equal(t, models.EmptyStatistics(), empty.Value)

	for i, n := range []int{100, 200, 300} {
		e := &models.JournalEntry{
			EntryDate: day(2024, 6, 15).AddDate(0, 0, -i),
			Content:   words(n),
		}
		if i > 0 {
			e.PrimaryMood = "calm"
		}
		require.NoError(t, s.Save(ctx, e, models.OwnedBy(1)))
	}

	got := s.GetStatistics(ctx, 1)
	require.NoError(t, got.Err)
	assert.Equal(t, models.Statistics{
		TotalEntries:   3,
		TotalWords:     600,
		AverageWords:   200,
		CurrentStreak:  3,
		MostCommonMood: "calm",
		LastEntryDate:  "2024-06-15",
	}, got.Value)
}

func TestGetStatistics_NoMood(t *testing.T) {
	s, _ := newEntryStore(t, newTestClock(noon))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &models.JournalEntry{EntryDate: day(2024, 5, 1), Content: "a b c"}, models.OwnedBy(1)))

	got := s.GetStatistics(ctx, 1).Value
	assert.Equal(t, models.NoMoodData, got.MostCommonMood)
	assert.Equal(t, "2024-05-01", got.LastEntryDate)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 3, got.AverageWords)
}

func TestGetByDateRange_FallbackEquivalence(t *testing.T) {
	s, db := newEntryStore(t, newTestClock(noon))
	ctx := context.Background()

	insert := func(date, title string) {
		_, err := db.DB().Exec(`INSERT INTO JournalEntries (UserId, EntryDate, Title, CreatedAt, UpdatedAt)
			VALUES (1, ?, ?, '2024-01-01 00:00:00', '2024-01-01 00:00:00')`, date, title)
		require.NoError(t, err)
	}
	insert("2024-03-01", "iso")
	insert("2024-03-05 18:30:00", "iso with time")
	insert("03/10/2024", "month first")
	insert("20/03/2024", "day first")
	insert("03/20/2024 07:15:00", "month first with time")
	insert("2024-02-28", "before")
	insert("2024-04-01", "after")

	from, to := day(2024, 3, 1), day(2024, 3, 20)

	primary, err := s.repo().ListByDateRange(ctx, 1, from, to)
	require.NoError(t, err, "all stored dates are normalizable")

	all := s.GetAllForUser(ctx, 1)
	require.NoError(t, all.Err)
	fallback := FilterByDateRange(all.Value, from, to)

	if diff := cmp.Diff(primary, fallback); diff != "" {
		t.Fatalf("sql and in-memory paths differ (-sql +memory):\n%s", diff)
	}
	require.Len(t, primary, 5)
	assert.Equal(t, "month first with time", primary[0].Title, "equal dates order by id descending")
	assert.Equal(t, "day first", primary[1].Title)

	got := s.GetByDateRange(ctx, from, to, 1)
	require.NoError(t, got.Err)
	assert.Equal(t, primary, got.Value)

	// a zoned timestamp forces the in-memory path
	insert("2024-03-15T09:00:00+01:00", "zoned")
	_, err = s.repo().ListByDateRange(ctx, 1, from, to)
	require.ErrorIs(t, err, entries.ErrUntrustedDates)

	got = s.GetByDateRange(ctx, from, to, 1)
	require.NoError(t, got.Err)
	require.Len(t, got.Value, 6)
	assert.Equal(t, "zoned", got.Value[2].Title)
	assert.Equal(t, FilterByDateRange(s.GetAllForUser(ctx, 1).Value, from, to), got.Value)
}

func TestFilterByDateRange_IgnoresTimeOfDay(t *testing.T) {
	list := []models.JournalEntry{
		{ID: 1, EntryDate: day(2024, 1, 1)},
		{ID: 2, EntryDate: day(2024, 1, 2)},
		{ID: 3, EntryDate: day(2024, 1, 2)},
		{ID: 4, EntryDate: day(2024, 1, 4)},
	}

	got := FilterByDateRange(list, time.Date(2024, 1, 1, 23, 0, 0, 0, time.Local), time.Date(2024, 1, 2, 1, 0, 0, 0, time.Local))
	ids := []int64{}
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{3, 2, 1}, ids)
}

func TestDeleteAndSupplementaryQueries(t *testing.T) {
	s, _ := newEntryStore(t, newTestClock(noon))
	ctx := context.Background()

	assert.Nil(t, s.GetLastEntryDate(ctx, 1).Value)

	e1 := &models.JournalEntry{EntryDate: day(2024, 6, 1), Title: "one", Category: "Work", PrimaryMood: "sad"}
	e2 := &models.JournalEntry{EntryDate: day(2024, 6, 3), Title: "two", Category: "Home", SecondaryMood1: "calm"}
	require.NoError(t, s.Save(ctx, e1, models.OwnedBy(1)))
	require.NoError(t, s.Save(ctx, e2, models.OwnedBy(1)))

	assert.Equal(t, 2, s.CountForUser(ctx, 1).Value)
	last := s.GetLastEntryDate(ctx, 1).Value
	require.NotNil(t, last)
	assert.True(t, last.Equal(day(2024, 6, 3)))

	assert.Equal(t, []string{"Home", "Work"}, s.GetUserCategories(ctx, 1).Value)
	assert.Equal(t, []string{"calm", "sad"}, s.GetUserMoods(ctx, 1).Value)
	assert.Equal(t, "sad", s.GetMostCommonMood(ctx, 1).Value)

	schema := s.DescribeSchema(ctx)
	require.NoError(t, schema.Err)
	assert.Equal(t, 2, schema.Value.Rows)

	removed, err := s.Delete(ctx, e1.ID, models.OwnedBy(1))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, s.GetByID(ctx, e1.ID, models.AnyOwner()).Value)

	n, err := s.ClearUserEntries(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, s.GetAllForUser(ctx, 1).Value)
}

func TestBackup_ByteIdenticalAndStoreKeepsWorking(t *testing.T) {
	s, db := newEntryStore(t, newTestClock(noon))
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &models.JournalEntry{Title: "before"}, models.OwnedBy(1)))

	dest := filepath.Join(t.TempDir(), "nested", "dir", "backup.db")
	ok, err := s.Backup(ctx, dest)
	require.NoError(t, err)
	require.True(t, ok)

	src, err := os.ReadFile(db.Path())
	require.NoError(t, err)
	dst, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, src, dst)

	require.NoError(t, s.Save(ctx, &models.JournalEntry{Title: "after"}, models.OwnedBy(1)))
	assert.Len(t, s.GetAllForUser(ctx, 1).Value, 2)
}

func TestBackup_Failures(t *testing.T) {
	s, _ := newEntryStore(t, newTestClock(noon))
	ctx := context.Background()

	ok, err := s.Backup(ctx, "")
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrorValidation)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	ok, err = s.Backup(ctx, filepath.Join(blocker, "backup.db"))
	assert.False(t, ok)
	assert.Error(t, err)

	assert.NoError(t, s.Save(ctx, &models.JournalEntry{Title: "still open"}, models.OwnedBy(1)))
}

func newMockEntryStore(t *testing.T) (*EntryStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repomanager.NewSQLiteRepositoryManager(logging.NewNopLogger())
	return NewEntryStore(mockHandle{db: db}, repos, logging.NewNopLogger(), WithClock(newTestClock(noon).Now)), mock
}

func TestReads_DegradeOnStorageFailure(t *testing.T) {
	s, mock := newMockEntryStore(t)
	ctx := context.Background()
	boom := errors.New("database is locked")

	mock.ExpectQuery(`SELECT Id, UserId`).WillReturnError(boom)
	got := s.GetAllForUser(ctx, 1)
	assert.True(t, got.Degraded())
	assert.ErrorIs(t, got.Err, boom)
	assert.NotNil(t, got.Value)
	assert.Empty(t, got.Get())

	mock.ExpectQuery(`SELECT Id, UserId`).WillReturnError(boom)
	one := s.GetByID(ctx, 1, models.OwnedBy(1))
	assert.ErrorIs(t, one.Err, boom)
	assert.Nil(t, one.Value)

	mock.ExpectQuery(`SELECT Id, UserId`).WillReturnError(boom)
	stats := s.GetStatistics(ctx, 1)
	assert.ErrorIs(t, stats.Err, boom)
	assert.Equal(t, models.EmptyStatistics(), stats.Value)

	mock.ExpectQuery(`SELECT PrimaryMood`).WillReturnError(boom)
	mood := s.GetMostCommonMood(ctx, 1)
	assert.ErrorIs(t, mood.Err, boom)
	assert.Equal(t, "", mood.Value)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByDateRange_FallsBackOnQueryFailure(t *testing.T) {
	s, mock := newMockEntryStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnError(errors.New("no such function: date"))
	rows := sqlmock.NewRows([]string{"Id", "UserId", "EntryDate", "Title", "Content", "PrimaryMood",
		"SecondaryMood1", "SecondaryMood2", "MoodCategory", "Category", "Tags", "CreatedAt", "UpdatedAt"}).
		AddRow(3, 1, "2024-06-14", "in", nil, nil, nil, nil, nil, nil, nil, "2024-06-14 08:00:00", "2024-06-14 08:00:00").
		AddRow(2, 1, "2024-05-01", "out", nil, nil, nil, nil, nil, nil, nil, "2024-05-01 08:00:00", "2024-05-01 08:00:00")
	mock.ExpectQuery(`SELECT Id, UserId`).WillReturnRows(rows)

	got := s.GetByDateRange(ctx, day(2024, 6, 1), day(2024, 6, 30), 1)
	require.NoError(t, got.Err)
	require.Len(t, got.Value, 1)
	assert.Equal(t, "in", got.Value[0].Title)

	boom := errors.New("disk full")
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnError(boom)
	mock.ExpectQuery(`SELECT Id, UserId`).WillReturnError(boom)
	got = s.GetByDateRange(ctx, day(2024, 6, 1), day(2024, 6, 30), 1)
	assert.ErrorIs(t, got.Err, boom)
	assert.Empty(t, got.Value)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWrites_PropagateStorageFailure(t *testing.T) {
	s, mock := newMockEntryStore(t)
	ctx := context.Background()
	boom := errors.New("readonly database")

	mock.ExpectExec(`INSERT INTO JournalEntries`).WillReturnError(boom)
	assert.ErrorIs(t, s.Save(ctx, &models.JournalEntry{Title: "x"}, models.OwnedBy(1)), boom)

	mock.ExpectExec(`DELETE FROM JournalEntries`).WillReturnError(boom)
	removed, err := s.Delete(ctx, 1, models.OwnedBy(1))
	assert.False(t, removed)
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec(`DELETE FROM JournalEntries`).WillReturnError(boom)
	_, err = s.ClearUserEntries(ctx, 1)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

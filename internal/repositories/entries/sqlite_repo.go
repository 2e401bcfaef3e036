package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/datex"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

// ErrUntrustedDates is returned by ListByDateRange when some stored date of
// the user cannot be normalized in SQL.
var ErrUntrustedDates = errors.New("stored dates cannot be normalized in sql")

// normDate renders EntryDate as YYYY-MM-DD for the layouts datex accepts
// without a zone, month-first before day-first, and NULL otherwise.
const normDate = `(CASE
	WHEN EntryDate GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
	  OR EntryDate GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9] [0-9][0-9]:[0-9][0-9]'
	  OR EntryDate GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9][ T][0-9][0-9]:[0-9][0-9]:[0-9][0-9]'
	THEN substr(EntryDate, 1, 10)
	WHEN (EntryDate GLOB '[0-9][0-9]/[0-9][0-9]/[0-9][0-9][0-9][0-9]'
	  OR EntryDate GLOB '[0-9][0-9]/[0-9][0-9]/[0-9][0-9][0-9][0-9] [0-9][0-9]:[0-9][0-9]:[0-9][0-9]')
	  AND CAST(substr(EntryDate, 1, 2) AS INTEGER) BETWEEN 1 AND 12
	THEN substr(EntryDate, 7, 4) || '-' || substr(EntryDate, 1, 2) || '-' || substr(EntryDate, 4, 2)
	WHEN EntryDate GLOB '[0-9][0-9]/[0-9][0-9]/[0-9][0-9][0-9][0-9]'
	  OR EntryDate GLOB '[0-9][0-9]/[0-9][0-9]/[0-9][0-9][0-9][0-9] [0-9][0-9]:[0-9][0-9]:[0-9][0-9]'
	THEN substr(EntryDate, 7, 4) || '-' || substr(EntryDate, 4, 2) || '-' || substr(EntryDate, 1, 2)
END)`

const selectEntries = `SELECT Id, UserId, EntryDate, Title, Content, PrimaryMood, SecondaryMood1,
	SecondaryMood2, MoodCategory, Category, Tags, CreatedAt, UpdatedAt
	FROM JournalEntries WHERE Id > 0`

const orderByDate = ` ORDER BY COALESCE(` + normDate + `, EntryDate) DESC, Id DESC`

type SQLiteRepository struct {
	db  dbx.DBTX
	log logging.Logger
	now func() time.Time
}

type Option func(*SQLiteRepository)

// WithLogger reports unparsable stored dates to log.
func WithLogger(log logging.Logger) Option {
	return func(r *SQLiteRepository) { r.log = log }
}

// WithClock sets the time substituted for unparsable stored dates.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) { r.now = now }
}

func NewSQLiteRepository(db dbx.DBTX, opts ...Option) *SQLiteRepository {
	r := &SQLiteRepository{db: db, log: logging.NewNopLogger(), now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *SQLiteRepository) Insert(ctx context.Context, entry *models.JournalEntry) error {
	query := `INSERT INTO JournalEntries (UserId, EntryDate, Title, Content, PrimaryMood,
		SecondaryMood1, SecondaryMood2, MoodCategory, Category, Tags, CreatedAt, UpdatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		entry.UserID,
		datex.FormatDate(entry.EntryDate),
		nullString(entry.Title),
		nullString(entry.Content),
		nullString(entry.PrimaryMood),
		nullString(entry.SecondaryMood1),
		nullString(entry.SecondaryMood2),
		nullString(entry.MoodCategory),
		nullString(entry.Category),
		nullString(entry.Tags),
		datex.FormatTimestamp(entry.CreatedAt),
		datex.FormatTimestamp(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted entry id: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, entry *models.JournalEntry, owner models.Owner) error {
	clause, ownerArgs := ownerClause(owner)
	query := `UPDATE JournalEntries SET EntryDate = ?, Title = ?, Content = ?,
		PrimaryMood = ?, SecondaryMood1 = ?, SecondaryMood2 = ?, MoodCategory = ?,
		Category = ?, Tags = ?, UpdatedAt = ?
		WHERE Id = ?` + clause + `
		RETURNING UserId, CreatedAt`

	args := []any{
		datex.FormatDate(entry.EntryDate),
		nullString(entry.Title),
		nullString(entry.Content),
		nullString(entry.PrimaryMood),
		nullString(entry.SecondaryMood1),
		nullString(entry.SecondaryMood2),
		nullString(entry.MoodCategory),
		nullString(entry.Category),
		nullString(entry.Tags),
		datex.FormatTimestamp(entry.UpdatedAt),
		entry.ID,
	}

	var created sql.NullString
	err := r.db.QueryRowContext(ctx, query, append(args, ownerArgs...)...).Scan(&entry.UserID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("entry %d: %w", entry.ID, common.ErrorNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update entry %d: %w", entry.ID, err)
	}

	entry.CreatedAt = r.parseTime(ctx, "CreatedAt", entry.ID, created.String)
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64, owner models.Owner) (*models.JournalEntry, error) {
	if id <= 0 {
		return nil, fmt.Errorf("entry %d: %w", id, common.ErrorNotFound)
	}

	clause, args := ownerClause(owner)
	query := selectEntries + ` AND Id = ?` + clause
	row := r.db.QueryRowContext(ctx, query, append([]any{id}, args...)...)

	e, err := r.scan(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %d: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %d: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) List(ctx context.Context, owner models.Owner) ([]models.JournalEntry, error) {
	clause, args := ownerClause(owner)
	return r.query(ctx, "list", selectEntries+clause+orderByDate, args...)
}

func (r *SQLiteRepository) ListByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]models.JournalEntry, error) {
	check := `SELECT COUNT(*) FROM JournalEntries WHERE Id > 0 AND UserId = ?
		AND (` + normDate + ` IS NULL OR date(` + normDate + `) IS NOT ` + normDate + `)`

	var untrusted int
	if err := r.db.QueryRowContext(ctx, check, userID).Scan(&untrusted); err != nil {
		return nil, fmt.Errorf("failed to check stored dates: %w", err)
	}
	if untrusted > 0 {
		return nil, fmt.Errorf("%d rows: %w", untrusted, ErrUntrustedDates)
	}

	query := selectEntries + ` AND UserId = ? AND ` + normDate + ` BETWEEN ? AND ?` +
		` ORDER BY ` + normDate + ` DESC, Id DESC`
	return r.query(ctx, "list by date range", query, userID, datex.FormatDate(from), datex.FormatDate(to))
}

func (r *SQLiteRepository) GetForDate(ctx context.Context, userID int64, day time.Time) (*models.JournalEntry, error) {
	query := selectEntries + ` AND UserId = ? AND EntryDate LIKE ? ORDER BY Id DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, userID, datex.FormatDate(day)+"%")

	e, err := r.scan(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry for %s: %w", datex.FormatDate(day), common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry for %s: %w", datex.FormatDate(day), err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListByMood(ctx context.Context, userID int64, mood string) ([]models.JournalEntry, error) {
	query := selectEntries + ` AND UserId = ?
		AND (PrimaryMood = ? OR SecondaryMood1 = ? OR SecondaryMood2 = ?)` + orderByDate
	return r.query(ctx, "list by mood", query, userID, mood, mood, mood)
}

func (r *SQLiteRepository) ListByTag(ctx context.Context, userID int64, tag string) ([]models.JournalEntry, error) {
	query := selectEntries + ` AND UserId = ? AND Tags LIKE ? ESCAPE '\'` + orderByDate
	return r.query(ctx, "list by tag", query, userID, containsPattern(tag))
}

// Search matches with SQLite's LIKE on both sides, so only ASCII letters
// fold case; other text matches as typed.
func (r *SQLiteRepository) Search(ctx context.Context, userID int64, term string) ([]models.JournalEntry, error) {
	p := containsPattern(term)
	query := selectEntries + ` AND UserId = ?
		AND (Title LIKE ? ESCAPE '\' OR Content LIKE ? ESCAPE '\' OR Tags LIKE ? ESCAPE '\')` +
		orderByDate
	return r.query(ctx, "search", query, userID, p, p, p)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64, owner models.Owner) (bool, error) {
	clause, args := ownerClause(owner)
	res, err := r.db.ExecContext(ctx, `DELETE FROM JournalEntries WHERE Id = ?`+clause, append([]any{id}, args...)...)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM JournalEntries WHERE UserId = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear entries of user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM JournalEntries WHERE Id > 0 AND UserId = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries of user %d: %w", userID, err)
	}
	return n, nil
}

func (r *SQLiteRepository) Categories(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT DISTINCT Category FROM JournalEntries
		WHERE Id > 0 AND UserId = ? AND Category IS NOT NULL AND Category <> ''
		ORDER BY Category`
	return r.listStrings(ctx, "categories", query, userID)
}

func (r *SQLiteRepository) Moods(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT Mood FROM (
			SELECT PrimaryMood AS Mood FROM JournalEntries WHERE Id > 0 AND UserId = ?
			UNION SELECT SecondaryMood1 FROM JournalEntries WHERE Id > 0 AND UserId = ?
			UNION SELECT SecondaryMood2 FROM JournalEntries WHERE Id > 0 AND UserId = ?
		) WHERE Mood IS NOT NULL AND Mood <> ''
		ORDER BY Mood`
	return r.listStrings(ctx, "moods", query, userID, userID, userID)
}

func (r *SQLiteRepository) MostCommonMood(ctx context.Context, userID int64) (string, error) {
	query := `SELECT PrimaryMood FROM JournalEntries
		WHERE Id > 0 AND UserId = ? AND PrimaryMood IS NOT NULL AND PrimaryMood <> ''
		GROUP BY PrimaryMood
		ORDER BY COUNT(*) DESC, PrimaryMood ASC
		LIMIT 1`

	var mood string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&mood)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("mood of user %d: %w", userID, common.ErrorNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get most common mood of user %d: %w", userID, err)
	}
	return mood, nil
}

func (r *SQLiteRepository) Describe(ctx context.Context) (*TableInfo, error) {
	rows, err := r.db.QueryContext(ctx, `PRAGMA table_info(JournalEntries)`)
	if err != nil {
		return nil, fmt.Errorf("failed to describe entries table: %w", err)
	}
	defer rows.Close()

	info := &TableInfo{}
	for rows.Next() {
		var (
			cid     int
			col     ColumnInfo
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		col.NotNull = notNull != 0
		col.Default = dflt.String
		col.Primary = pk != 0
		info.Columns = append(info.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate column info: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM JournalEntries`).Scan(&info.Rows); err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	return info, nil
}

func (r *SQLiteRepository) query(ctx context.Context, op, query string, args ...any) ([]models.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s entries: %w", op, err)
	}
	defer rows.Close()

	result := []models.JournalEntry{}
	for rows.Next() {
		e, err := r.scan(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		result = append(result, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) listStrings(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", op, err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", op, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scan(ctx context.Context, row rowScanner) (*models.JournalEntry, error) {
	var e models.JournalEntry
	var userID sql.NullInt64
	var date, title, content, mood, m1, m2, mcat, category, tags, created, updated sql.NullString

	err := row.Scan(&e.ID, &userID, &date, &title, &content, &mood, &m1, &m2, &mcat,
		&category, &tags, &created, &updated)
	if err != nil {
		return nil, err
	}

	e.UserID = userID.Int64
	if !userID.Valid {
		e.UserID = 1
	}
	e.EntryDate = datex.DateOnly(r.parseTime(ctx, "EntryDate", e.ID, date.String))
	e.Title = title.String
	e.Content = content.String
	e.PrimaryMood = mood.String
	e.SecondaryMood1 = m1.String
	e.SecondaryMood2 = m2.String
	e.MoodCategory = mcat.String
	e.Category = category.String
	e.Tags = tags.String
	e.CreatedAt = r.parseTime(ctx, "CreatedAt", e.ID, created.String)
	e.UpdatedAt = r.parseTime(ctx, "UpdatedAt", e.ID, updated.String)
	return &e, nil
}

func (r *SQLiteRepository) parseTime(ctx context.Context, field string, id int64, s string) time.Time {
	t, ok := datex.ParseOr(s, r.now())
	if !ok {
		r.log.Warn(ctx, "unparsable stored date, using current time",
			"op", "scan", "entry_id", id, "field", field, "value", s)
	}
	return t
}

func ownerClause(owner models.Owner) (string, []any) {
	if id, ok := owner.UserID(); ok {
		return ` AND UserId = ?`, []any{id}
	}
	return "", nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ykwatch/internal/modules/homework/domain"
	homeworkout "ykwatch/internal/modules/homework/port/out"
	apperrors "ykwatch/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteSnapshotStore keeps the latest aggregation result in a local SQLite
// file. Replace swaps the whole snapshot inside one transaction, so readers
// never observe a half-written mix of two passes.
type SQLiteSnapshotStore struct {
	db *sql.DB
}

func NewSQLiteSnapshotStore(dbPath string) (*SQLiteSnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSnapshotStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

var _ homeworkout.SnapshotStore = (*SQLiteSnapshotStore)(nil)

func (s *SQLiteSnapshotStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS homeworks (
  ordinal INTEGER PRIMARY KEY,
  id TEXT NOT NULL,
  title TEXT NOT NULL,
  course_id TEXT NOT NULL,
  course_name TEXT NOT NULL,
  deadline TEXT,
  start_time TEXT,
  status TEXT NOT NULL,
  score REAL,
  kind TEXT NOT NULL,
  url TEXT
);
CREATE TABLE IF NOT EXISTS courses (
  ordinal INTEGER PRIMARY KEY,
  id TEXT NOT NULL,
  name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create snapshot tables: %w", err)
	}
	return nil
}

func (s *SQLiteSnapshotStore) Replace(ctx context.Context, snapshot domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"homeworks", "courses"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	const insertHomework = `
INSERT INTO homeworks (ordinal, id, title, course_id, course_name, deadline, start_time, status, score, kind, url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	for ordinal, hw := range snapshot.Homeworks {
		_, err := tx.ExecContext(ctx, insertHomework,
			ordinal,
			hw.ID,
			hw.Title,
			hw.CourseID,
			hw.CourseName,
			formatNullableTime(hw.Deadline),
			formatNullableTime(hw.StartTime),
			string(hw.Status),
			nullableFloat(hw.Score),
			string(hw.Kind),
			hw.URL,
		)
		if err != nil {
			return fmt.Errorf("insert homework %s: %w", hw.ID, err)
		}
	}

	for ordinal, c := range snapshot.Courses {
		if _, err := tx.ExecContext(ctx, `INSERT INTO courses (ordinal, id, name) VALUES (?, ?, ?)`, ordinal, c.ID, c.Name); err != nil {
			return fmt.Errorf("insert course %s: %w", c.ID, err)
		}
	}

	const upsertMeta = `
INSERT INTO meta (key, value) VALUES ('last_update', ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value;
`
	if _, err := tx.ExecContext(ctx, upsertMeta, snapshot.UpdatedAt.Format(timeLayout)); err != nil {
		return fmt.Errorf("record last update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func (s *SQLiteSnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	var updated string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'last_update'`).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, apperrors.ErrNoSnapshot
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load last update: %w", err)
	}
	updatedAt, err := time.Parse(timeLayout, updated)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse last update: %w", err)
	}

	snapshot := domain.Snapshot{UpdatedAt: updatedAt}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, course_id, course_name, deadline, start_time, status, score, kind, url
FROM homeworks ORDER BY ordinal`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load homeworks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			hw        domain.Homework
			status    string
			kind      string
			deadline  sql.NullString
			startTime sql.NullString
			score     sql.NullFloat64
		)
		if err := rows.Scan(&hw.ID, &hw.Title, &hw.CourseID, &hw.CourseName, &deadline, &startTime, &status, &score, &kind, &hw.URL); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan homework: %w", err)
		}
		hw.Status = domain.Status(status)
		hw.Kind = domain.Kind(kind)
		if hw.Deadline, err = parseNullableTime(deadline); err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse deadline for %s: %w", hw.ID, err)
		}
		if hw.StartTime, err = parseNullableTime(startTime); err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse start time for %s: %w", hw.ID, err)
		}
		if score.Valid {
			value := score.Float64
			hw.Score = &value
		}
		snapshot.Homeworks = append(snapshot.Homeworks, hw)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate homeworks: %w", err)
	}

	courseRows, err := s.db.QueryContext(ctx, `SELECT id, name FROM courses ORDER BY ordinal`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load courses: %w", err)
	}
	defer courseRows.Close()
	for courseRows.Next() {
		var c domain.CourseRef
		if err := courseRows.Scan(&c.ID, &c.Name); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan course: %w", err)
		}
		snapshot.Courses = append(snapshot.Courses, c)
	}
	if err := courseRows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate courses: %w", err)
	}

	return snapshot, nil
}

func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeLayout)
}

func parseNullableTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

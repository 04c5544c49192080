// Package store persists planning sessions in SQLite. The paywall
// masking contract lives here: LoadByID truncates the plan of a locked
// session to the free-day count while TotalDays always reports the true
// length. Everything above this package can trust what it is handed.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS trip_sessions (
	id          TEXT PRIMARY KEY,
	destination TEXT NOT NULL,
	plan        TEXT NOT NULL,
	unlocked    INTEGER NOT NULL DEFAULT 0,
	total_days  INTEGER NOT NULL,
	email       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS trip_images (
	session_id TEXT NOT NULL REFERENCES trip_sessions(id) ON DELETE CASCADE,
	day_number INTEGER NOT NULL,
	url        TEXT NOT NULL,
	alt        TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (session_id, day_number)
);
`

// SQLiteStore implements capability.SessionStore and capability.EmailSender
// over a single SQLite file.
type SQLiteStore struct {
	db       *sql.DB
	logger   *slog.Logger
	freeDays int
}

// Open opens (and if needed creates) the database at path with WAL mode
// and foreign keys enabled. freeDays values below 1 fall back to the
// paywall default.
func Open(path string, freeDays int, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if freeDays < 1 {
		freeDays = paywall.DefaultFreeDays
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.STORE_OPEN_FAILED, "could not open session database", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, types.WrapError(types.STORE_OPEN_FAILED, "could not reach session database", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, types.WrapError(types.STORE_OPEN_FAILED, "could not apply schema", err)
	}

	return &SQLiteStore{db: db, logger: logger, freeDays: freeDays}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the full, untruncated session and its images.
func (s *SQLiteStore) Save(ctx context.Context, session capability.Session) error {
	planJSON, err := json.Marshal(session.Plan)
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "could not encode plan", err)
	}

	destination := ""
	if session.Plan != nil {
		destination = session.Plan.Destination
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trip_sessions (id, destination, plan, unlocked, total_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			destination = excluded.destination,
			plan        = excluded.plan,
			unlocked    = excluded.unlocked,
			total_days  = excluded.total_days,
			updated_at  = excluded.updated_at`,
		session.ID.String(), destination, string(planJSON),
		boolToInt(session.Unlocked), session.TotalDays, now, now)
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "could not save session", err)
	}

	for day, img := range session.Images {
		if err := s.SaveImage(ctx, session.ID, day, img); err != nil {
			return err
		}
	}
	return nil
}

// LoadByID returns the session. A locked session comes back with its
// plan and images truncated to the free days; TotalDays stays authoritative.
func (s *SQLiteStore) LoadByID(ctx context.Context, id types.ID) (capability.Session, error) {
	var (
		planJSON  string
		unlocked  int
		totalDays int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT plan, unlocked, total_days FROM trip_sessions WHERE id = ?`,
		id.String()).Scan(&planJSON, &unlocked, &totalDays)
	if errors.Is(err, sql.ErrNoRows) {
		return capability.Session{}, types.NewErrorf(types.SESSION_NOT_FOUND, "no session %s", id)
	}
	if err != nil {
		return capability.Session{}, types.WrapError(types.STORE_QUERY_FAILED, "could not load session", err)
	}

	var plan *trip.Itinerary
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
		return capability.Session{}, types.WrapError(types.STORE_QUERY_FAILED, "could not decode plan", err)
	}

	images, err := s.loadImages(ctx, id)
	if err != nil {
		return capability.Session{}, err
	}

	session := capability.Session{
		ID:        id,
		Plan:      plan,
		Unlocked:  unlocked != 0,
		TotalDays: totalDays,
		Images:    images,
	}

	if !session.Unlocked {
		mask(&session, s.freeDays)
	}
	return session, nil
}

// MarkUnlocked flips the paywall flag after payment verification.
func (s *SQLiteStore) MarkUnlocked(ctx context.Context, id types.ID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trip_sessions SET unlocked = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id.String())
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "could not unlock session", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.NewErrorf(types.SESSION_NOT_FOUND, "no session %s", id)
	}
	return nil
}

// SaveImage upserts one hydrated day image.
func (s *SQLiteStore) SaveImage(ctx context.Context, id types.ID, dayNumber int, img capability.DayImage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trip_images (session_id, day_number, url, alt, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, day_number) DO UPDATE SET
			url = excluded.url,
			alt = excluded.alt`,
		id.String(), dayNumber, img.URL, img.Alt, time.Now().UTC())
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "could not save day image", err)
	}
	return nil
}

// SaveEmail records the traveler's share address on the session.
func (s *SQLiteStore) SaveEmail(ctx context.Context, email string, id types.ID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trip_sessions SET email = ?, updated_at = ? WHERE id = ?`,
		email, time.Now().UTC(), id.String())
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "could not save email", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.NewErrorf(types.SESSION_NOT_FOUND, "no session %s", id)
	}
	return nil
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	ID          types.ID
	Destination string
	TotalDays   int
	Unlocked    bool
	CreatedAt   time.Time
}

// ListRecent returns the newest sessions, most recent first.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, destination, total_days, unlocked, created_at
		FROM trip_sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "could not list sessions", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			sum      SessionSummary
			rawID    string
			unlocked int
		)
		if err := rows.Scan(&rawID, &sum.Destination, &sum.TotalDays, &unlocked, &sum.CreatedAt); err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "could not scan session row", err)
		}
		sum.ID = types.ID(rawID)
		sum.Unlocked = unlocked != 0
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "could not list sessions", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadImages(ctx context.Context, id types.ID) (map[int]capability.DayImage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day_number, url, alt FROM trip_images WHERE session_id = ?`, id.String())
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "could not load day images", err)
	}
	defer rows.Close()

	images := make(map[int]capability.DayImage)
	for rows.Next() {
		var (
			day int
			img capability.DayImage
		)
		if err := rows.Scan(&day, &img.URL, &img.Alt); err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "could not scan image row", err)
		}
		images[day] = img
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "could not load day images", err)
	}
	return images, nil
}

// mask truncates a locked session's plan and images to the free days.
func mask(session *capability.Session, freeDays int) {
	if session.Plan != nil && len(session.Plan.Days) > freeDays {
		truncated := session.Plan.Clone()
		truncated.Days = truncated.Days[:freeDays]
		session.Plan = truncated
	}
	for day := range session.Images {
		if day > freeDays {
			delete(session.Images, day)
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

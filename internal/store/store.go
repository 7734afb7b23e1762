package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a named account does not exist.
var ErrNotFound = errors.New("account not found")

// Account is one linked calendar account.
type Account struct {
	ID       int64
	Name     string
	Platform string
}

// Calendar is one calendar of a linked account along with its local
// selection flags.
type Calendar struct {
	AccountID    int64
	ID           string
	Name         string
	Selected     bool
	CanEdit      bool
	HoldCalendar bool
}

// Store manages all SQLite operations.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL UNIQUE,
		platform TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS calendars (
		account_id         INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		calendar_id        TEXT NOT NULL,
		calendar_name      TEXT NOT NULL,
		is_selected        INTEGER NOT NULL DEFAULT 0,
		can_edit           INTEGER NOT NULL DEFAULT 0,
		use_for_hold_event INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (account_id, calendar_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AddAccount links a new account. Account names are unique; re-adding an
// existing name is an error surfaced to the user.
func (s *Store) AddAccount(name, platform string) (Account, error) {
	res, err := s.db.Exec(
		`INSERT INTO accounts (name, platform) VALUES (?, ?)`,
		name, platform,
	)
	if err != nil {
		return Account{}, fmt.Errorf("failed to add account %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Account{}, err
	}
	return Account{ID: id, Name: name, Platform: platform}, nil
}

// GetAccount retrieves an account by name.
func (s *Store) GetAccount(name string) (Account, error) {
	var a Account
	err := s.db.QueryRow(
		`SELECT id, name, platform FROM accounts WHERE name = ?`, name,
	).Scan(&a.ID, &a.Name, &a.Platform)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

// RemoveAccount unlinks an account. Its calendars cascade away.
func (s *Store) RemoveAccount(name string) error {
	res, err := s.db.Exec(`DELETE FROM accounts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove account %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// ListAccounts returns all linked accounts ordered by name.
func (s *Store) ListAccounts() ([]Account, error) {
	rows, err := s.db.Query(`SELECT id, name, platform FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Platform); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ReplaceCalendars swaps an account's cached calendar list for the given
// one, atomically. Selection flags come from the provided records.
func (s *Store) ReplaceCalendars(accountID int64, calendars []Calendar) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM calendars WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("failed to clear cached calendars: %w", err)
	}
	for _, c := range calendars {
		_, err := tx.Exec(
			`INSERT INTO calendars
			 (account_id, calendar_id, calendar_name, is_selected, can_edit, use_for_hold_event)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			accountID, c.ID, c.Name, c.Selected, c.CanEdit, c.HoldCalendar,
		)
		if err != nil {
			return fmt.Errorf("failed to cache calendar %q: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// Calendars returns every cached calendar of an account ordered by name.
func (s *Store) Calendars(accountID int64) ([]Calendar, error) {
	return s.queryCalendars(
		`SELECT account_id, calendar_id, calendar_name, is_selected, can_edit, use_for_hold_event
		 FROM calendars WHERE account_id = ? ORDER BY calendar_name`, accountID)
}

// SelectedCalendars returns the calendars marked for availability
// searches.
func (s *Store) SelectedCalendars(accountID int64) ([]Calendar, error) {
	return s.queryCalendars(
		`SELECT account_id, calendar_id, calendar_name, is_selected, can_edit, use_for_hold_event
		 FROM calendars WHERE account_id = ? AND is_selected = 1 ORDER BY calendar_name`, accountID)
}

// HoldCalendar returns the calendar designated for hold events, if one
// is set. The designation is global; only one calendar across every
// account holds it.
func (s *Store) HoldCalendar() (Calendar, bool, error) {
	cals, err := s.queryCalendars(
		`SELECT account_id, calendar_id, calendar_name, is_selected, can_edit, use_for_hold_event
		 FROM calendars WHERE use_for_hold_event = 1 LIMIT 1`)
	if err != nil {
		return Calendar{}, false, err
	}
	if len(cals) == 0 {
		return Calendar{}, false, nil
	}
	return cals[0], true, nil
}

// SetHoldCalendar designates one calendar for hold events, clearing any
// previous designation on any account.
func (s *Store) SetHoldCalendar(accountID int64, calendarID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE calendars SET use_for_hold_event = 0`); err != nil {
		return err
	}
	res, err := tx.Exec(
		`UPDATE calendars SET use_for_hold_event = 1 WHERE account_id = ? AND calendar_id = ?`,
		accountID, calendarID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("calendar %q is not cached for this account", calendarID)
	}
	return tx.Commit()
}

func (s *Store) queryCalendars(query string, args ...any) ([]Calendar, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calendars []Calendar
	for rows.Next() {
		var c Calendar
		if err := rows.Scan(&c.AccountID, &c.ID, &c.Name, &c.Selected, &c.CanEdit, &c.HoldCalendar); err != nil {
			return nil, err
		}
		calendars = append(calendars, c)
	}
	return calendars, rows.Err()
}

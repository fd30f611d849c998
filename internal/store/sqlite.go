package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/homedash/homedash/internal/model"
)

// Store provides database operations.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the SQLite database and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite single-writer
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &Store{db: db, dbPath: dbPath}, nil
}

// DBPath returns the database file path.
func (s *Store) DBPath() string { return s.dbPath }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- Fetch history ---

// InsertFragments persists every fragment of a refresh pass.
func (s *Store) InsertFragments(res model.RefreshResult) error {
	if len(res.Fragments) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO fetch_samples (pass_id, timestamp, module, title, text, ok, error) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, f := range res.Fragments {
		ok := 0
		if f.OK {
			ok = 1
		}
		if _, err := stmt.Exec(res.PassID, res.Timestamp, f.Module, f.Title, f.Text, ok, f.Err); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// LatestPass returns the samples of the most recent refresh pass, in
// insertion (registration) order. Returns nil if no pass has run yet.
func (s *Store) LatestPass() ([]model.FetchSample, error) {
	var passID string
	err := s.db.QueryRow("SELECT pass_id FROM fetch_samples ORDER BY id DESC LIMIT 1").Scan(&passID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, pass_id, timestamp, module, title, text, ok, error
		FROM fetch_samples WHERE pass_id = ? ORDER BY id`, passID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSamples(rows)
}

// QueryHistory returns the persisted samples for one module in a time range.
func (s *Store) QueryHistory(moduleID string, from, to int64) ([]model.FetchSample, error) {
	rows, err := s.db.Query(`
		SELECT id, pass_id, timestamp, module, title, text, ok, error
		FROM fetch_samples
		WHERE module = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp`, moduleID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSamples(rows)
}

func scanSamples(rows *sql.Rows) ([]model.FetchSample, error) {
	var result []model.FetchSample
	for rows.Next() {
		var m model.FetchSample
		var ok int
		if err := rows.Scan(&m.ID, &m.PassID, &m.Timestamp, &m.Module, &m.Title, &m.Text, &ok, &m.Err); err != nil {
			return nil, err
		}
		m.OK = ok != 0
		result = append(result, m)
	}
	return result, rows.Err()
}

// PurgeOlderThan removes samples older than the given number of hours.
func (s *Store) PurgeOlderThan(hours int) (int64, error) {
	cutoff := time.Now().Unix() - int64(hours)*3600
	res, err := s.db.Exec("DELETE FROM fetch_samples WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Module state ---

// SetModuleEnabled sets the enabled state of a module instance.
func (s *Store) SetModuleEnabled(id string, enabled bool) error {
	enabledInt := 0
	if enabled {
		enabledInt = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO module_state (module_id, enabled) VALUES (?, ?)
		ON CONFLICT(module_id) DO UPDATE SET enabled = excluded.enabled`,
		id, enabledInt)
	return err
}

// GetAllModuleStates returns all saved module states.
func (s *Store) GetAllModuleStates() ([]model.ModuleState, error) {
	rows, err := s.db.Query("SELECT module_id, enabled FROM module_state")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.ModuleState
	for rows.Next() {
		var ms model.ModuleState
		var enabled int
		if err := rows.Scan(&ms.ModuleID, &enabled); err != nil {
			return nil, err
		}
		ms.Enabled = enabled != 0
		result = append(result, ms)
	}
	return result, rows.Err()
}

// --- Settings ---

// GetSetting returns a setting value, or "" if unset.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetSetting upserts a setting.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetAllSettings returns all settings.
func (s *Store) GetAllSettings() ([]model.Setting, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Setting
	for rows.Next() {
		var st model.Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}

// --- Dashboard layouts ---

// ListDashboardLayouts returns all saved layouts.
func (s *Store) ListDashboardLayouts() ([]model.DashboardLayout, error) {
	rows, err := s.db.Query("SELECT id, name, layout, updated FROM dashboard_layouts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.DashboardLayout
	for rows.Next() {
		var dl model.DashboardLayout
		if err := rows.Scan(&dl.ID, &dl.Name, &dl.Layout, &dl.Updated); err != nil {
			return nil, err
		}
		result = append(result, dl)
	}
	return result, rows.Err()
}

// GetDashboardLayout returns one layout, or nil if it does not exist.
func (s *Store) GetDashboardLayout(id int64) (*model.DashboardLayout, error) {
	row := s.db.QueryRow("SELECT id, name, layout, updated FROM dashboard_layouts WHERE id = ?", id)
	var dl model.DashboardLayout
	if err := row.Scan(&dl.ID, &dl.Name, &dl.Layout, &dl.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &dl, nil
}

// CreateDashboardLayout inserts a layout and returns its ID.
func (s *Store) CreateDashboardLayout(dl *model.DashboardLayout) (int64, error) {
	res, err := s.db.Exec("INSERT INTO dashboard_layouts (name, layout, updated) VALUES (?, ?, ?)",
		dl.Name, dl.Layout, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateDashboardLayout updates an existing layout.
func (s *Store) UpdateDashboardLayout(dl *model.DashboardLayout) error {
	_, err := s.db.Exec("UPDATE dashboard_layouts SET name = ?, layout = ?, updated = ? WHERE id = ?",
		dl.Name, dl.Layout, time.Now().Unix(), dl.ID)
	return err
}

// DeleteDashboardLayout removes a layout.
func (s *Store) DeleteDashboardLayout(id int64) error {
	_, err := s.db.Exec("DELETE FROM dashboard_layouts WHERE id = ?", id)
	return err
}

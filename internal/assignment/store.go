package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// StoreFileName is the assignment database file inside a pack root. The file
// is part of the on-disk pack contract and survives process restarts.
const StoreFileName = "assignments.db"

// Store persists the active claims of a single pack in SQLite. One Store
// instance serves one pack; stores are never shared across packs.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to a pack's assignment database.
func Open(packRoot string) (*Store, error) {
	dbPath := filepath.Join(packRoot, StoreFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the backing database file.
func (s *Store) Path() string {
	return s.path
}

// Outcome tags the result of a claim attempt. Conflicts are ordinary control
// flow, not errors.
type Outcome string

const (
	OutcomeClaimed      Outcome = "claimed"
	OutcomeAlreadyTaken Outcome = "already_taken"
	OutcomeUserBusy     Outcome = "user_busy"
)

// ClaimResult reports how a claim attempt resolved. Claimant is populated for
// OutcomeAlreadyTaken; HeldPath for OutcomeUserBusy.
type ClaimResult struct {
	Outcome  Outcome
	Claimant string
	HeldPath string
}

// Claim atomically records assetPath as claimed by userID. The insert succeeds
// only when the asset is unclaimed and the user holds no other claim; both
// uniqueness rules live in a single conditional statement so the store is the
// sole serialization point under concurrent claims.
func (s *Store) Claim(ctx context.Context, assetPath, userID string) (ClaimResult, error) {
	if assetPath == "" {
		return ClaimResult{}, errors.New("asset path required")
	}
	if userID == "" {
		return ClaimResult{}, errors.New("user id required")
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO claims (asset_path, user_id, created_at)
         SELECT ?1, ?2, ?3
         WHERE NOT EXISTS (SELECT 1 FROM claims WHERE asset_path = ?1)
           AND NOT EXISTS (SELECT 1 FROM claims WHERE user_id = ?2)`,
		assetPath,
		userID,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("insert claim: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ClaimResult{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return ClaimResult{Outcome: OutcomeClaimed}, nil
	}

	// The insert was refused; report which uniqueness rule blocked it.
	if claimant, ok, err := s.ClaimantOf(ctx, assetPath); err != nil {
		return ClaimResult{}, err
	} else if ok {
		return ClaimResult{Outcome: OutcomeAlreadyTaken, Claimant: claimant}, nil
	}
	if held, ok, err := s.ClaimByUser(ctx, userID); err != nil {
		return ClaimResult{}, err
	} else if ok {
		return ClaimResult{Outcome: OutcomeUserBusy, HeldPath: held}, nil
	}
	// Both guards cleared between the insert and the diagnosis reads; the
	// caller simply lost a race that has since resolved.
	return ClaimResult{Outcome: OutcomeAlreadyTaken}, nil
}

// Release deletes the claim on assetPath. Releasing an unclaimed asset is a
// no-op.
func (s *Store) Release(ctx context.Context, assetPath string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM claims WHERE asset_path = ?`, assetPath); err != nil {
		return fmt.Errorf("release claim: %w", err)
	}
	return nil
}

// ClaimantOf returns the user currently holding assetPath.
func (s *Store) ClaimantOf(ctx context.Context, assetPath string) (string, bool, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM claims WHERE asset_path = ?`, assetPath).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query claimant: %w", err)
	}
	return userID, true, nil
}

// ClaimByUser returns the asset path currently held by userID.
func (s *Store) ClaimByUser(ctx context.Context, userID string) (string, bool, error) {
	var assetPath string
	err := s.db.QueryRowContext(ctx, `SELECT asset_path FROM claims WHERE user_id = ?`, userID).Scan(&assetPath)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query user claim: %w", err)
	}
	return assetPath, true, nil
}

// ClaimedPaths returns the set of asset paths with an active claim.
func (s *Store) ClaimedPaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT asset_path FROM claims`)
	if err != nil {
		return nil, fmt.Errorf("query claimed paths: %w", err)
	}
	defer rows.Close()

	claimed := make(map[string]struct{})
	for rows.Next() {
		var assetPath string
		if err := rows.Scan(&assetPath); err != nil {
			return nil, err
		}
		claimed[assetPath] = struct{}{}
	}
	return claimed, rows.Err()
}

// Claim describes one active assignment record.
type Claim struct {
	AssetPath string
	UserID    string
	CreatedAt time.Time
}

// List returns all active claims ordered by creation time.
func (s *Store) List(ctx context.Context) ([]Claim, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT asset_path, user_id, created_at FROM claims ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []Claim
	for rows.Next() {
		var (
			claim      Claim
			createdRaw string
		)
		if err := rows.Scan(&claim.AssetPath, &claim.UserID, &createdRaw); err != nil {
			return nil, err
		}
		if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
			claim.CreatedAt = created
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// Count returns the number of active claims.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM claims`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return count, nil
}

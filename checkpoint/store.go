// Package checkpoint persists solver snapshots in a single file SQLite
// database, one row per snapshot with the primitive fields as BLOBs.
package checkpoint

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/notargets/gosrhd/model_problems/SRHD"
	"github.com/notargets/gosrhd/types"
)

//go:embed schema.sql
var schema string

var ErrNotFound = errors.New("no checkpoint found")

// Store implements SRHD.Checkpointer. Snapshots written through it are
// labelled with Run, so several runs can share a database.
type Store struct {
	Run    string
	db     *sql.DB
	logger *slog.Logger
}

// Entry describes a stored snapshot without its fields
type Entry struct {
	ID        int64
	Run       string
	Step      int
	Time      float64
	Dims      int
	N         [2]int
	CreatedAt time.Time
}

func Open(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("checkpoint path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create checkpoint schema: %w", err)
	}
	return &Store{Run: "default", db: db, logger: logger.With("db", path)}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) WriteCheckpoint(ctx context.Context, snap *SRHD.Snapshot) (err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	if _, err = snap.Primitive(); err != nil {
		return
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (
		   run, step, time, dt, dims, n1, n2, min1, min2, max1, max2,
		   geometry, spacing1, spacing2, gamma, rho, v1, v2, p, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Run, snap.Step, snap.Time, snap.Dt, snap.Dims, snap.N[0], snap.N[1],
		snap.Min[0], snap.Min[1], snap.Max[0], snap.Max[1],
		int(snap.Geometry), int(snap.Spacing[0]), int(snap.Spacing[1]), snap.Gamma,
		encodeFloats(snap.Rho), encodeFloats(snap.V1), encodeFloats(snap.V2), encodeFloats(snap.P),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	id, _ := res.LastInsertId()
	s.logger.Info("checkpoint written", "run", s.Run, "id", id, "step", snap.Step, "time", snap.Time)
	return
}

const snapshotColumns = `step, time, dt, dims, n1, n2, min1, min2, max1, max2,
	geometry, spacing1, spacing2, gamma, rho, v1, v2, p`

// Latest returns the most recent snapshot of the store's run
func (s *Store) Latest(ctx context.Context) (*SRHD.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE run = ? ORDER BY id DESC LIMIT 1`, s.Run)
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("latest checkpoint of run %q: %w", s.Run, err)
	}
	return snap, nil
}

// Load returns the snapshot with the given id, from any run
func (s *Store) Load(ctx context.Context, id int64) (*SRHD.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("checkpoint %d: %w", id, err)
	}
	return snap, nil
}

// List returns every stored snapshot, oldest first. An empty run lists all
// runs.
func (s *Store) List(ctx context.Context, run string) (entries []Entry, err error) {
	var rows *sql.Rows
	rows, err = s.db.QueryContext(ctx,
		`SELECT id, run, step, time, dims, n1, n2, created_at FROM snapshots
		 WHERE ? = '' OR run = ? ORDER BY id`, run, run)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e         Entry
			createdAt int64
		)
		if err = rows.Scan(&e.ID, &e.Run, &e.Step, &e.Time, &e.Dims, &e.N[0], &e.N[1], &createdAt); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	return
}

func scanSnapshot(row *sql.Row) (snap *SRHD.Snapshot, err error) {
	var (
		geometry           int
		spacing1, spacing2 int
		rho, v1, v2, p     []byte
	)
	snap = &SRHD.Snapshot{}
	err = row.Scan(&snap.Step, &snap.Time, &snap.Dt, &snap.Dims, &snap.N[0], &snap.N[1],
		&snap.Min[0], &snap.Min[1], &snap.Max[0], &snap.Max[1],
		&geometry, &spacing1, &spacing2, &snap.Gamma, &rho, &v1, &v2, &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	snap.Geometry = types.Geometry(geometry)
	snap.Spacing = [2]types.Spacing{types.Spacing(spacing1), types.Spacing(spacing2)}
	for _, f := range []struct {
		dst *[]float64
		src []byte
	}{{&snap.Rho, rho}, {&snap.V1, v1}, {&snap.V2, v2}, {&snap.P, p}} {
		if *f.dst, err = decodeFloats(f.src); err != nil {
			return nil, err
		}
	}
	if _, err = snap.Primitive(); err != nil {
		return nil, err
	}
	return
}

func encodeFloats(v []float64) (b []byte) {
	b = make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
	}
	return
}

func decodeFloats(b []byte) (v []float64, err error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("field blob of %d bytes is not a whole number of float64", len(b))
	}
	v = make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return
}

// Package faildb persists falsified properties so their seeds replay on
// later runs before any fresh random trials. The store is plain SQL:
// SQLite for a local failure file, Postgres or MySQL when a team wants
// one shared database across CI workers.
package faildb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/propq/propq/dburl"
	"github.com/propq/propq/runid"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Failure is one recorded counterexample.
type Failure struct {
	ID          string
	Property    string
	Seed        int64
	Original    string
	Shrunk      string
	ShrinkSteps int
	CreatedAt   time.Time
}

// DB is an open failure database.
type DB struct {
	db      *sql.DB
	dialect string
}

const schema = `
CREATE TABLE IF NOT EXISTS propq_failures (
	id           VARCHAR(32) PRIMARY KEY,
	property     VARCHAR(255) NOT NULL,
	seed         BIGINT NOT NULL,
	original     TEXT,
	shrunk       TEXT,
	shrink_steps INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL
)`

// Open connects to the failure database at the given URL (see
// dburl.Resolve for accepted forms) and creates the schema if needed.
func Open(url string) (*DB, error) {
	conn, err := dburl.Resolve(url)
	if err != nil {
		return nil, fmt.Errorf("faildb: %w", err)
	}

	db, err := sql.Open(conn.Driver, conn.DSN)
	if err != nil {
		return nil, fmt.Errorf("faildb: open %s: %w", conn.Dialect, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("faildb: ping %s: %w", conn.Dialect, err)
	}

	d := &DB{db: db, dialect: conn.Dialect}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("faildb: create schema: %w", err)
	}
	return d, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// rebind rewrites ?-style placeholders to the dialect's form.
func (d *DB) rebind(query string) string {
	if d.dialect != dburl.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record stores a failure and returns its generated ID.
func (d *DB) Record(f Failure) (string, error) {
	id := runid.New()
	_, err := d.db.Exec(
		d.rebind(`INSERT INTO propq_failures (id, property, seed, original, shrunk, shrink_steps, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
		id, f.Property, f.Seed, f.Original, f.Shrunk, f.ShrinkSteps, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("faildb: record failure: %w", err)
	}
	return id, nil
}

// Seeds returns the stored seeds for a property, oldest first, so the
// driver can replay known failures before fresh trials.
func (d *DB) Seeds(property string) ([]int64, error) {
	rows, err := d.db.Query(
		d.rebind(`SELECT seed FROM propq_failures WHERE property = ? ORDER BY created_at, id`),
		property,
	)
	if err != nil {
		return nil, fmt.Errorf("faildb: load seeds: %w", err)
	}
	defer rows.Close()

	var seeds []int64
	for rows.Next() {
		var s int64
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("faildb: scan seed: %w", err)
		}
		seeds = append(seeds, s)
	}
	return seeds, rows.Err()
}

// List returns every stored failure, newest first.
func (d *DB) List() ([]Failure, error) {
	rows, err := d.db.Query(
		`SELECT id, property, seed, original, shrunk, shrink_steps, created_at
		 FROM propq_failures ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("faildb: list failures: %w", err)
	}
	defer rows.Close()

	var out []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.ID, &f.Property, &f.Seed, &f.Original, &f.Shrunk, &f.ShrinkSteps, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("faildb: scan failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Clear deletes stored failures for one property, or all of them when
// property is empty. It returns the number of rows removed.
func (d *DB) Clear(property string) (int64, error) {
	var res sql.Result
	var err error
	if property == "" {
		res, err = d.db.Exec(`DELETE FROM propq_failures`)
	} else {
		res, err = d.db.Exec(d.rebind(`DELETE FROM propq_failures WHERE property = ?`), property)
	}
	if err != nil {
		return 0, fmt.Errorf("faildb: clear failures: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("faildb: clear failures: %w", err)
	}
	return n, nil
}

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE TABLE results (
    idx           INTEGER PRIMARY KEY,
    wavelength_nm REAL NOT NULL,
    ok            INTEGER NOT NULL,
    error         TEXT NOT NULL DEFAULT '',
    r             REAL NOT NULL,
    t             REAL NOT NULL,
    a             REAL NOT NULL,
    energy_error  REAL NOT NULL,
    amplitudes    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE layer_absorption (
    idx        INTEGER NOT NULL REFERENCES results(idx),
    layer      INTEGER NOT NULL,
    name       TEXT NOT NULL,
    absorption REAL NOT NULL,
    PRIMARY KEY (idx, layer)
);
CREATE TABLE orders (
    idx INTEGER NOT NULL REFERENCES results(idx),
    p   INTEGER NOT NULL,
    q   INTEGER NOT NULL,
    r   REAL NOT NULL,
    t   REAL NOT NULL,
    PRIMARY KEY (idx, p, q)
);
`

type amplitudes struct {
	Reflection   [][2]float64 `json:"reflection"`
	Transmission [][2]float64 `json:"transmission"`
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	return db, nil
}

func writeSQLite(path string, run *Run) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	meta, err := json.Marshal(run.Metadata.Stack)
	if err != nil {
		return err
	}
	for key, value := range map[string]string{
		"run_id":       run.Metadata.RunID,
		"started":      run.Metadata.Started.UTC().Format(time.RFC3339Nano),
		"elapsed":      run.Metadata.Elapsed.String(),
		"polarization": run.Metadata.Polarization,
		"stack":        string(meta),
		"config":       run.Metadata.Config,
		"succeeded":    fmt.Sprint(run.Metadata.Succeeded),
		"failed":       fmt.Sprint(run.Metadata.Failed),
	} {
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("insert metadata %s: %w", key, err)
		}
	}

	for _, e := range run.Entries {
		amps := ""
		if e.OK {
			data, err := json.Marshal(amplitudes{Reflection: e.Reflection, Transmission: e.Transmission})
			if err != nil {
				return err
			}
			amps = string(data)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (idx, wavelength_nm, ok, error, r, t, a, energy_error, amplitudes)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Index, e.Wavelength, e.OK, e.Error, e.R, e.T, e.A, e.EnergyError, amps,
		); err != nil {
			return fmt.Errorf("insert result %d: %w", e.Index, err)
		}
		for j, a := range e.LayerA {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO layer_absorption (idx, layer, name, absorption) VALUES (?, ?, ?, ?)`,
				e.Index, j, e.LayerNames[j], a,
			); err != nil {
				return fmt.Errorf("insert layer absorption %d/%d: %w", e.Index, j, err)
			}
		}
		for _, o := range e.Orders {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO orders (idx, p, q, r, t) VALUES (?, ?, ?, ?, ?)`,
				e.Index, o.P, o.Q, o.R, o.T,
			); err != nil {
				return fmt.Errorf("insert order %d/(%d,%d): %w", e.Index, o.P, o.Q, err)
			}
		}
	}
	return tx.Commit()
}

func readSQLite(path string) (*Run, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	run := &Run{}
	if err := readMetadata(db, &run.Metadata); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT idx, wavelength_nm, ok, error, r, t, a, energy_error, amplitudes FROM results ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()
	byIndex := map[int]int{}
	for rows.Next() {
		var e Entry
		var amps string
		if err := rows.Scan(&e.Index, &e.Wavelength, &e.OK, &e.Error, &e.R, &e.T, &e.A, &e.EnergyError, &amps); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if amps != "" {
			var a amplitudes
			if err := json.Unmarshal([]byte(amps), &a); err != nil {
				return nil, fmt.Errorf("decode amplitudes %d: %w", e.Index, err)
			}
			e.Reflection, e.Transmission = a.Reflection, a.Transmission
		}
		byIndex[e.Index] = len(run.Entries)
		run.Entries = append(run.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	layers, err := db.Query(`SELECT idx, name, absorption FROM layer_absorption ORDER BY idx, layer`)
	if err != nil {
		return nil, fmt.Errorf("query layer absorption: %w", err)
	}
	defer layers.Close()
	for layers.Next() {
		var idx int
		var name string
		var a float64
		if err := layers.Scan(&idx, &name, &a); err != nil {
			return nil, err
		}
		e := &run.Entries[byIndex[idx]]
		e.LayerNames = append(e.LayerNames, name)
		e.LayerA = append(e.LayerA, a)
	}
	if err := layers.Err(); err != nil {
		return nil, err
	}

	orders, err := db.Query(`SELECT idx, p, q, r, t FROM orders ORDER BY idx, p*p+q*q, p, q`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer orders.Close()
	for orders.Next() {
		var idx int
		var o Order
		if err := orders.Scan(&idx, &o.P, &o.Q, &o.R, &o.T); err != nil {
			return nil, err
		}
		e := &run.Entries[byIndex[idx]]
		e.Orders = append(e.Orders, o)
	}
	return run, orders.Err()
}

func readMetadata(db *sql.DB, meta *Metadata) error {
	rows, err := db.Query(`SELECT key, value FROM metadata`)
	if err != nil {
		return fmt.Errorf("query metadata: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case "run_id":
			meta.RunID = value
		case "started":
			meta.Started, err = time.Parse(time.RFC3339Nano, value)
		case "elapsed":
			meta.Elapsed, err = time.ParseDuration(value)
		case "polarization":
			meta.Polarization = value
		case "stack":
			err = json.Unmarshal([]byte(value), &meta.Stack)
		case "config":
			meta.Config = value
		case "succeeded":
			_, err = fmt.Sscan(value, &meta.Succeeded)
		case "failed":
			_, err = fmt.Sscan(value, &meta.Failed)
		}
		if err != nil {
			return fmt.Errorf("metadata %s: %w", key, err)
		}
	}
	return rows.Err()
}

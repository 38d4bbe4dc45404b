// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package store records navX samples in a SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/relabs-tech/navx/internal/registers"
)

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp     INTEGER NOT NULL,
	board_ms      INTEGER NOT NULL,
	yaw           REAL NOT NULL,
	roll          REAL NOT NULL,
	pitch         REAL NOT NULL,
	heading       REAL NOT NULL,
	quat_w        REAL NOT NULL,
	quat_x        REAL NOT NULL,
	quat_y        REAL NOT NULL,
	quat_z        REAL NOT NULL,
	altitude_m    REAL NOT NULL,
	pressure_mbar REAL NOT NULL,
	temp_c        REAL NOT NULL,
	op_status     INTEGER NOT NULL,
	sensor_status INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS samples_timestamp ON samples (timestamp);
`

// Sample is one recorded row.
type Sample struct {
	Timestamp    int64   `db:"timestamp" json:"timestamp"` // unix milliseconds
	BoardMS      uint32  `db:"board_ms" json:"board_ms"`
	Yaw          float32 `db:"yaw" json:"yaw"`
	Roll         float32 `db:"roll" json:"roll"`
	Pitch        float32 `db:"pitch" json:"pitch"`
	Heading      float32 `db:"heading" json:"heading"`
	QuatW        float32 `db:"quat_w" json:"quat_w"`
	QuatX        float32 `db:"quat_x" json:"quat_x"`
	QuatY        float32 `db:"quat_y" json:"quat_y"`
	QuatZ        float32 `db:"quat_z" json:"quat_z"`
	AltitudeM    float64 `db:"altitude_m" json:"altitude_m"`
	PressureMbar float64 `db:"pressure_mbar" json:"pressure_mbar"`
	TempC        float32 `db:"temp_c" json:"temp_c"`
	OpStatus     uint8   `db:"op_status" json:"op_status"`
	SensorStatus uint8   `db:"sensor_status" json:"sensor_status"`
}

// SampleFromSnapshot flattens the recorded fields of s taken at t.
func SampleFromSnapshot(t time.Time, s registers.Snapshot) Sample {
	return Sample{
		Timestamp:    t.UnixMilli(),
		BoardMS:      s.SensorState.TimestampMS,
		Yaw:          s.Orientation.Yaw,
		Roll:         s.Orientation.Roll,
		Pitch:        s.Orientation.Pitch,
		Heading:      s.FusedHeading.Degrees,
		QuatW:        s.Quaternion.W,
		QuatX:        s.Quaternion.X,
		QuatY:        s.Quaternion.Y,
		QuatZ:        s.Quaternion.Z,
		AltitudeM:    s.Altitude.Meters,
		PressureMbar: s.Pressure.Millibar,
		TempC:        s.MPUTemperature.Celsius,
		OpStatus:     uint8(s.Status.Operation),
		SensorStatus: uint8(s.SensorState.Status),
	}
}

// Store wraps the sample database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Insert appends one sample.
func (s *Store) Insert(smp Sample) error {
	_, err := s.db.Exec(
		"INSERT INTO samples "+
			"(timestamp, board_ms, yaw, roll, pitch, heading, quat_w, quat_x, quat_y, quat_z, "+
			"altitude_m, pressure_mbar, temp_c, op_status, sensor_status) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		smp.Timestamp, smp.BoardMS,
		smp.Yaw, smp.Roll, smp.Pitch, smp.Heading,
		smp.QuatW, smp.QuatX, smp.QuatY, smp.QuatZ,
		smp.AltitudeM, smp.PressureMbar, smp.TempC,
		smp.OpStatus, smp.SensorStatus,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Recent returns up to limit samples, newest first.
func (s *Store) Recent(limit int) ([]Sample, error) {
	return s.query(
		"SELECT timestamp, board_ms, yaw, roll, pitch, heading, quat_w, quat_x, quat_y, quat_z, "+
			"altitude_m, pressure_mbar, temp_c, op_status, sensor_status "+
			"FROM samples ORDER BY timestamp DESC, id DESC LIMIT ?",
		limit,
	)
}

// Between returns the samples with from <= timestamp < to, oldest first.
func (s *Store) Between(from, to time.Time) ([]Sample, error) {
	return s.query(
		"SELECT timestamp, board_ms, yaw, roll, pitch, heading, quat_w, quat_x, quat_y, quat_z, "+
			"altitude_m, pressure_mbar, temp_c, op_status, sensor_status "+
			"FROM samples WHERE timestamp >= ? AND timestamp < ? ORDER BY timestamp, id",
		from.UnixMilli(), to.UnixMilli(),
	)
}

// Count returns the number of stored samples.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&n); err != nil {
		return 0, fmt.Errorf("count samples: %w", err)
	}
	return n, nil
}

// Prune deletes samples older than before and returns how many went.
func (s *Store) Prune(before time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM samples WHERE timestamp < ?", before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune samples: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) query(q string, args ...any) ([]Sample, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var smp Sample
		if err := rows.Scan(
			&smp.Timestamp, &smp.BoardMS,
			&smp.Yaw, &smp.Roll, &smp.Pitch, &smp.Heading,
			&smp.QuatW, &smp.QuatX, &smp.QuatY, &smp.QuatZ,
			&smp.AltitudeM, &smp.PressureMbar, &smp.TempC,
			&smp.OpStatus, &smp.SensorStatus,
		); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, smp)
	}
	return out, rows.Err()
}

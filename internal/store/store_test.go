// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/relabs-tech/navx/internal/codec"
	"github.com/relabs-tech/navx/internal/registers"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "navx.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndRecent(t *testing.T) {
	s := openTemp(t)
	base := time.UnixMilli(1_700_000_000_000)

	for i := 0; i < 5; i++ {
		var snap registers.Snapshot
		snap.Orientation.Yaw = float32(i * 10)
		snap.SensorState.TimestampMS = uint32(i * 20)
		snap.Status.Operation = codec.OpNormal
		snap.Pressure.Millibar = 1013.25
		if err := s.Insert(SampleFromSnapshot(base.Add(time.Duration(i)*time.Second), snap)); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Count()
	if err != nil || n != 5 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Yaw != 40 || recent[1].Yaw != 30 {
		t.Fatalf("Recent = %+v", recent)
	}
	if recent[0].BoardMS != 80 || recent[0].PressureMbar != 1013.25 || recent[0].OpStatus != uint8(codec.OpNormal) {
		t.Fatalf("row = %+v", recent[0])
	}

	window, err := s.Between(base.Add(time.Second), base.Add(3*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 2 || window[0].Yaw != 10 || window[1].Yaw != 20 {
		t.Fatalf("Between = %+v", window)
	}
}

func TestPrune(t *testing.T) {
	s := openTemp(t)
	base := time.UnixMilli(1_700_000_000_000)
	for i := 0; i < 4; i++ {
		if err := s.Insert(Sample{Timestamp: base.Add(time.Duration(i) * time.Minute).UnixMilli()}); err != nil {
			t.Fatal(err)
		}
	}
	gone, err := s.Prune(base.Add(2 * time.Minute))
	if err != nil || gone != 2 {
		t.Fatalf("Prune = %d, %v", gone, err)
	}
	if n, _ := s.Count(); n != 2 {
		t.Fatalf("Count after prune = %d", n)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navx.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(Sample{Timestamp: 1, Roll: 2.5}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	rows, err := s.Recent(10)
	if err != nil || len(rows) != 1 || rows[0].Roll != 2.5 {
		t.Fatalf("rows after reopen = %+v, %v", rows, err)
	}
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"fmt"

	"github.com/relabs-tech/navx/internal/registers"
)

// SnapshotCache is the read side of a snapshot watcher.
type SnapshotCache interface {
	Get() (registers.Snapshot, error)
}

type boardSource struct {
	cache SnapshotCache
}

// NewBoardSource returns a Source reading the latest fused pose from a
// snapshot cache. It never blocks on the bus.
func NewBoardSource(cache SnapshotCache) Source {
	return &boardSource{cache: cache}
}

func (s *boardSource) Next() (Pose, error) {
	snap, err := s.cache.Get()
	if err != nil {
		return Pose{}, fmt.Errorf("navX pose: %w", err)
	}
	return FromOrientation(snap.Orientation), nil
}

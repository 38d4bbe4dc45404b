// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/navx/internal/navxerr"
	"github.com/relabs-tech/navx/internal/orientation"
	"github.com/relabs-tech/navx/internal/sensors"
)

// RunMockConsole drives a watcher over the in-memory board and prints
// what it reads. No hardware or broker is needed.
func RunMockConsole() error {
	board := sensors.NewBoard("mock", sensors.NewMockBoard(orientation.NewMockSource()), nil)
	w := board.WatchSnapshot()
	poses := orientation.NewBoardSource(w)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			if _, err := w.Close(); err != nil {
				return err
			}
			return board.Close()
		case <-ticker.C:
			pose, err := poses.Next()
			if navxerr.IsTransient(err) {
				continue
			}
			if err != nil {
				return err
			}
			fmt.Printf(
				"ROLL=%6.2f  PITCH=%6.2f  YAW=%6.2f\n",
				pose.Roll,
				pose.Pitch,
				pose.Yaw,
			)
		}
	}
}

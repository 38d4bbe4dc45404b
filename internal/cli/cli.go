// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package cli implements the navxctl command tree.
package cli

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/navx/internal/codec"
	"github.com/relabs-tech/navx/internal/config"
	"github.com/relabs-tech/navx/internal/navxerr"
	"github.com/relabs-tech/navx/internal/protocol"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/sensors"
	"github.com/relabs-tech/navx/internal/watch"
)

// NewRootCmd builds the navxctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "navxctl",
		Short:         "navxctl talks to a navX AHRS over its register protocol",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().String("config", config.DefaultPath, "configuration file")
	root.PersistentFlags().Bool("mock", false, "use the in-memory mock board instead of the configured transport")
	root.PersistentFlags().Bool("debug", false, "toggle debug logging")

	root.AddCommand(
		recordsCmd(),
		readCmd(),
		writeCmd(),
		resetCmd(),
		dumpCmd(),
		watchCmd(),
		crcCmd(),
	)
	return root
}

// loadConfig returns the configuration selected by the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if mock, _ := cmd.Flags().GetBool("mock"); mock {
		cfg := config.Default()
		cfg.Transport = config.TransportMock
		return cfg, nil
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyLogLevel()
	return cfg, nil
}

func openBoard(cmd *cobra.Command) (*sensors.Board, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	// The tool must not change board settings as a side effect.
	cfg.UpdateRateHz = 0
	cfg.ResetIntegrationStart = false
	return sensors.Open(cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseByte accepts decimal or 0x-prefixed hex.
func parseByte(s string) (byte, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(n), nil
}

func recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "list the named records and control registers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			set, err := cfg.RegisterSet()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, info := range set.Registry().All() {
				fmt.Fprintf(out, "0x%02X %3d %-2s %s\n", info.Address, info.Length, info.Access, info.Name)
			}
			return nil
		},
	}
}

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <record|address> [length]",
		Short: "read a named record, decoded, or raw bytes at an address",
		Example: `  navxctl read orientation
  navxctl read 0x16 8`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer board.Close()
			out := cmd.OutOrStdout()

			addr, err := parseByte(args[0])
			if err != nil {
				rec, err := board.ReadRecord(args[0])
				if err != nil {
					return err
				}
				return printJSON(out, rec)
			}

			n := byte(1)
			if len(args) == 2 {
				if n, err = parseByte(args[1]); err != nil {
					return err
				}
			}
			data, err := board.ReadRegisters(addr, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, hex.EncodeToString(data))
			return nil
		},
	}
}

func writeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "write <address> <value>",
		Short:   "write one byte to a writable register",
		Example: `  navxctl write 0x04 100`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseByte(args[0])
			if err != nil {
				return err
			}
			value, err := parseByte(args[1])
			if err != nil {
				return err
			}
			board, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer board.Close()
			return board.WriteRegister(addr, value)
		},
	}
}

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "reset integrated velocity, displacement and yaw",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var flags codec.ControlReset
			if v, _ := cmd.Flags().GetBool("velocity"); v {
				flags |= codec.ResetVel
			}
			if v, _ := cmd.Flags().GetBool("displacement"); v {
				flags |= codec.ResetDisp
			}
			if v, _ := cmd.Flags().GetBool("yaw"); v {
				flags |= codec.ResetYaw
			}
			if flags == 0 {
				flags = codec.ResetAll
			}
			board, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer board.Close()
			if err := board.ResetIntegration(flags); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %v\n", flags)
			return nil
		},
	}
	cmd.Flags().Bool("velocity", false, "reset velocity")
	cmd.Flags().Bool("displacement", false, "reset displacement")
	cmd.Flags().Bool("yaw", false, "zero yaw")
	return cmd
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "hex dump of the whole register file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer board.Close()
			data, err := board.ReadRegisters(0, registers.SnapshotLength)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), hex.Dump(data))
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "poll the board in the background and print the orientation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			poll, _ := cmd.Flags().GetDuration("poll")
			interval, _ := cmd.Flags().GetDuration("interval")
			count, _ := cmd.Flags().GetInt("count")

			board, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer board.Close()
			return watchBoard(cmd.OutOrStdout(), board, poll, interval, count)
		},
	}
	cmd.Flags().Duration("poll", 0, "wait between board polls, 0 polls back to back")
	cmd.Flags().Duration("interval", 100*time.Millisecond, "print interval")
	cmd.Flags().Int("count", 0, "stop after this many lines, 0 runs until interrupted")
	return cmd
}

func watchBoard(out io.Writer, board *sensors.Board, poll, interval time.Duration, count int) error {
	w := board.WatchSnapshot(watch.WithInterval(poll))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	printed := 0
loop:
	for count == 0 || printed < count {
		select {
		case <-sigCh:
			break loop
		case <-w.Done():
			break loop
		case <-ticker.C:
			snap, err := w.Get()
			if errors.Is(err, navxerr.ErrNotReady) {
				continue
			}
			if err != nil {
				break loop
			}
			o := snap.Orientation
			fmt.Fprintf(out, "%8d ms  yaw=%7.2f roll=%7.2f pitch=%7.2f heading=%6.2f\n",
				snap.SensorState.TimestampMS, o.Yaw, o.Roll, o.Pitch, snap.FusedHeading.Degrees)
			printed++
		}
	}

	_, err := w.Close()
	st := w.Stats()
	log.Debugf("watch: %d ok, %d retried, %d dropped", st.Successes, st.Transient, st.Invalid)
	return err
}

func crcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crc <hex bytes>",
		Short: "print the CRC7 of the given bytes",
		Example: `  navxctl crc 00 04
  navxctl crc 8432`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hex.DecodeString(strings.Join(args, ""))
			if err != nil {
				return fmt.Errorf("invalid hex: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%02X\n", protocol.CRC7(data))
			return nil
		},
	}
}

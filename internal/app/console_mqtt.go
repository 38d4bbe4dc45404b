// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/config"
	"github.com/relabs-tech/navx/internal/registers"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON(client, cfg.TopicIdentity, func(id registers.Identity) {
		fmt.Println(formatIdentity(id))
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicOrientation, func(m OrientationMessage) {
		fmt.Println(formatOrientation(m))
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicQuaternion, func(q registers.Quaternion) {
		fmt.Println(formatQuaternion(q))
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicIMURaw, func(r registers.RawIMU) {
		fmt.Println(formatRawIMU(r))
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicMotion, func(m MotionMessage) {
		fmt.Println(formatMotion(m))
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicStatus, func(s StatusMessage) {
		fmt.Println(formatStatus(s))
	}); err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	return nil
}

func formatIdentity(id registers.Identity) string {
	return fmt.Sprintf("[ID  ]  model=0x%02X rev=%d fw=%d.%d",
		id.Model, id.BoardRevision, id.FirmwareMajor, id.FirmwareMinor)
}

func formatOrientation(m OrientationMessage) string {
	return fmt.Sprintf("[POSE]  ROLL=%7.2f  PITCH=%7.2f  YAW=%7.2f  HDG=%6.2f  t=%dms",
		m.Pose.Roll, m.Pose.Pitch, m.Pose.Yaw, m.FusedHeading, m.TimestampMS)
}

func formatQuaternion(q registers.Quaternion) string {
	return fmt.Sprintf("[QUAT]  w=%7.4f x=%7.4f y=%7.4f z=%7.4f", q.W, q.X, q.Y, q.Z)
}

func formatRawIMU(r registers.RawIMU) string {
	return fmt.Sprintf("[RAW ]  ax=%6d ay=%6d az=%6d  gx=%6d gy=%6d gz=%6d  mx=%6d my=%6d mz=%6d",
		r.Accel.X, r.Accel.Y, r.Accel.Z, r.Gyro.X, r.Gyro.Y, r.Gyro.Z, r.Mag.X, r.Mag.Y, r.Mag.Z)
}

func formatMotion(m MotionMessage) string {
	a, v, d := m.LinearAccel.G, m.Velocity.MetersPerSecond, m.Displacement.Meters
	return fmt.Sprintf("[MOVE]  acc=(%.3f %.3f %.3f)g vel=(%.2f %.2f %.2f)m/s disp=(%.2f %.2f %.2f)m alt=%.1fm",
		a.X, a.Y, a.Z, v.X, v.Y, v.Z, d.X, d.Y, d.Z, m.Altitude.Meters)
}

func formatStatus(s StatusMessage) string {
	return fmt.Sprintf("[STAT]  op=%v cal=%v sensor=%v temp=%.1fC watcher=%s ok=%d retry=%d bad=%d",
		s.Status.Operation, s.Status.Calibration, s.Sensor.Status, s.Temperature,
		s.Watcher, s.Stats.Successes, s.Stats.Transient, s.Stats.Invalid)
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/config"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/store"
)

// sample assembles a row from the latest messages. It needs at least an
// orientation message.
func (s *liveState) sample(t time.Time) (store.Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.orientation == nil {
		return store.Sample{}, false
	}

	var snap registers.Snapshot
	o := s.orientation
	snap.Orientation = registers.Orientation{
		Yaw:            float32(o.Pose.Yaw),
		Roll:           float32(o.Pose.Roll),
		Pitch:          float32(o.Pose.Pitch),
		CompassHeading: o.CompassHeading,
	}
	snap.FusedHeading.Degrees = o.FusedHeading
	snap.SensorState.TimestampMS = o.TimestampMS
	if s.quaternion != nil {
		snap.Quaternion = *s.quaternion
	}
	if s.motion != nil {
		snap.Altitude = s.motion.Altitude
		snap.Pressure = s.motion.Pressure
	}
	if s.status != nil {
		snap.Status = s.status.Status
		snap.SensorState.Status = s.status.Sensor.Status
		snap.MPUTemperature.Celsius = s.status.Temperature
	}
	return store.SampleFromSnapshot(t, snap), true
}

// RunRecorder stores the published board state in SQLite at the recorder
// interval.
func RunRecorder() error {
	cfg := config.Get()

	db, err := store.Open(cfg.RecorderDBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Printf("recorder: writing to %s", cfg.RecorderDBPath)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDRecorder)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	state := &liveState{}
	if err := subscribeJSON(client, cfg.TopicOrientation, state.setOrientation); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicQuaternion, state.setQuaternion); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicMotion, state.setMotion); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicStatus, state.setStatus); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(time.Duration(cfg.RecorderInterval) * time.Millisecond)
	defer ticker.Stop()

	var written int
	for {
		select {
		case <-sigCh:
			log.Printf("recorder: shutting down after %d samples", written)
			return nil
		case t := <-ticker.C:
			smp, ok := state.sample(t)
			if !ok {
				continue
			}
			if err := db.Insert(smp); err != nil {
				log.Printf("recorder: %v", err)
				continue
			}
			written++
		}
	}
}

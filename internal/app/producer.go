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

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/config"
	"github.com/relabs-tech/navx/internal/navxerr"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/sensors"
	"github.com/relabs-tech/navx/internal/watch"
)

// RunProducer watches the board and publishes every record group over
// MQTT until interrupted or until the board fails.
func RunProducer() error {
	cfg := config.Get()

	board, err := sensors.Open(cfg)
	if err != nil {
		return err
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		board.Close()
		return err
	}
	defer client.Disconnect(250)
	pub := mqttPublisher{client: client}

	if id, err := board.Identity(); err != nil {
		log.Printf("Warning: identity read failed: %v", err)
	} else if err := pub.Publish(cfg.TopicIdentity, true, id); err != nil {
		log.Printf("MQTT publish error (identity): %v", err)
	}

	w := board.WatchSnapshot(watch.WithInterval(cfg.PollInterval()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(time.Duration(cfg.PublishInterval) * time.Millisecond)
	defer ticker.Stop()
	logTicker := time.NewTicker(time.Duration(cfg.ConsoleLogInterval) * time.Millisecond)
	defer logTicker.Stop()

	log.Println("producer: publish loop started")
loop:
	for {
		select {
		case <-sigCh:
			log.Println("producer: shutting down")
			break loop
		case <-w.Done():
			break loop
		case <-ticker.C:
			snap, err := w.Get()
			if err != nil {
				if !navxerr.IsTransient(err) {
					log.Printf("producer: %v", err)
				}
				continue
			}
			if err := publishSnapshot(pub, cfg, snap, w.State(), w.Stats()); err != nil {
				log.Printf("MQTT publish error: %v", err)
			}
		case <-logTicker.C:
			if snap, err := w.Get(); err == nil {
				o := snap.Orientation
				log.Printf("tick: R=%.2f P=%.2f Y=%.2f heading=%.1f | %+v", o.Roll, o.Pitch, o.Yaw, snap.FusedHeading.Degrees, w.Stats())
			}
		}
	}

	w.Stop()
	if _, err := w.Join(); err != nil {
		board.Close()
		return fmt.Errorf("navX watcher: %w", err)
	}
	return board.Close()
}

// publishSnapshot splits one snapshot into the configured topics.
func publishSnapshot(pub publisher, cfg *config.Config, snap registers.Snapshot, state watch.State, stats watch.Stats) error {
	status := StatusMessage{
		Status:      snap.Status,
		Sensor:      snap.SensorState,
		Temperature: snap.MPUTemperature.Celsius,
		Watcher:     state.String(),
		Stats:       stats,
	}
	msgs := []struct {
		topic string
		v     any
	}{
		{cfg.TopicOrientation, orientationMessage(snap)},
		{cfg.TopicQuaternion, snap.Quaternion},
		{cfg.TopicIMURaw, snap.RawIMU},
		{cfg.TopicMotion, motionMessage(snap)},
		{cfg.TopicStatus, status},
	}
	for _, m := range msgs {
		if err := pub.Publish(m.topic, true, m.v); err != nil {
			return err
		}
	}
	return nil
}

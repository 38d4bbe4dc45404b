// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/navx/internal/config"
)

const (
	displayWidth  = 128
	displayHeight = 64

	// pageTicks is how many updates each page stays on screen.
	pageTicks = 8
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	orientation     OrientationMessage
	haveOrientation bool
	status          StatusMessage
	haveStatus      bool
	motion          MotionMessage
	haveMotion      bool
}

func (d *DisplayData) copy() DisplayData {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DisplayData{
		orientation:     d.orientation,
		haveOrientation: d.haveOrientation,
		status:          d.status,
		haveStatus:      d.haveStatus,
		motion:          d.motion,
		haveMotion:      d.haveMotion,
	}
}

func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized on %s", bus)

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON(client, cfg.TopicOrientation, func(m OrientationMessage) {
		data.mu.Lock()
		data.orientation, data.haveOrientation = m, true
		data.mu.Unlock()
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicStatus, func(m StatusMessage) {
		data.mu.Lock()
		data.status, data.haveStatus = m, true
		data.mu.Unlock()
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, cfg.TopicMotion, func(m MotionMessage) {
		data.mu.Lock()
		data.motion, data.haveMotion = m, true
		data.mu.Unlock()
	}); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")
	for tick := 0; ; tick++ {
		<-ticker.C
		snapshot := data.copy()
		img := renderPage(tick/pageTicks, &snapshot)
		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}
}

// renderPage cycles through the orientation, motion and status pages.
func renderPage(page int, data *DisplayData) *image1bit.VerticalLSB {
	switch page % 3 {
	case 0:
		return renderOrientation(data.orientation, data.haveOrientation)
	case 1:
		return renderMotion(data.motion, data.haveMotion)
	default:
		return renderStatus(data.status, data.haveStatus)
	}
}

// drawLines draws up to four lines of 7x13 text.
func drawLines(lines ...string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}
	return img
}

func renderOrientation(m OrientationMessage, haveData bool) *image1bit.VerticalLSB {
	if !haveData {
		return drawLines("", "Orientation", "Waiting...")
	}
	return drawLines(
		fmt.Sprintf("R: %6.1f", m.Pose.Roll),
		fmt.Sprintf("P: %6.1f", m.Pose.Pitch),
		fmt.Sprintf("Y: %6.1f", m.Pose.Yaw),
		fmt.Sprintf("H: %6.1f", m.FusedHeading),
	)
}

func renderMotion(m MotionMessage, haveData bool) *image1bit.VerticalLSB {
	if !haveData {
		return drawLines("", "Motion", "Waiting...")
	}
	v, d := m.Velocity.MetersPerSecond, m.Displacement.Meters
	return drawLines(
		fmt.Sprintf("V:%5.2f %5.2f", v.X, v.Y),
		fmt.Sprintf("D:%5.1f %5.1f", d.X, d.Y),
		fmt.Sprintf("Alt: %.1fm", m.Altitude.Meters),
		fmt.Sprintf("%.1f mbar", m.Pressure.Millibar),
	)
}

func renderStatus(m StatusMessage, haveData bool) *image1bit.VerticalLSB {
	if !haveData {
		return drawLines("", "navX status", "Waiting...")
	}
	return drawLines(
		fmt.Sprintf("Op: %v", m.Status.Operation),
		fmt.Sprintf("Temp: %.1fC", m.Temperature),
		fmt.Sprintf("Poll: %s", m.Watcher),
		fmt.Sprintf("Bad: %d/%d", m.Stats.Invalid, m.Stats.Transient),
	)
}

func renderSplash() *image1bit.VerticalLSB {
	return drawLines("", "  navX AHRS", "  Starting...")
}

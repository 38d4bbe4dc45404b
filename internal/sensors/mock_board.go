// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
	"time"

	"github.com/relabs-tech/navx/internal/codec"
	"github.com/relabs-tech/navx/internal/orientation"
	"github.com/relabs-tech/navx/internal/protocol"
	"github.com/relabs-tech/navx/internal/registers"
)

// accelCountsPerG is the raw accelerometer scale at the default 2 G range.
const accelCountsPerG = 16384

// MockBoard is an in-memory navX register file that answers the 3-byte
// register protocol. Every read request refreshes the motion registers
// from an orientation source.
type MockBoard struct {
	mu        sync.Mutex
	regs      [registers.RegisterCount]byte
	pending   []byte
	motion    orientation.Source
	start     time.Time
	now       func() time.Time
	yawOffset float64
	corrupt   int
	closed    bool
}

// NewMockBoard returns a powered-up, calibrated board. motion may be nil
// for a board that never moves.
func NewMockBoard(motion orientation.Source) *MockBoard {
	m := &MockBoard{motion: motion, start: time.Now(), now: time.Now}
	r := m.regs[:]
	copy(r[registers.RegWhoAmI:], []byte{0x32, 0x21, 0x03, 0x00})
	r[registers.RegUpdateRateHz] = 50
	r[registers.RegAccelFSRG] = 2
	binary.LittleEndian.PutUint16(r[registers.RegGyroFSRDPS:], 2000)
	r[registers.RegOpStatus] = byte(codec.OpNormal)
	r[registers.RegCalStatus] = byte(codec.CalIMUComplete | codec.CalMagComplete | codec.CalBaroComplete)
	r[registers.RegSelfTestStatus] = byte(codec.SelfTestComplete | codec.SelfTestGyroPassed |
		codec.SelfTestAccelPassed | codec.SelfTestMagPassed | codec.SelfTestBaroPassed)
	r[registers.RegCapability] = byte(codec.CapOmniMount | codec.CapVelAndDisp | codec.CapVelAndDisp2)
	r[registers.RegSensorStatus] = byte(codec.SensorYawStable | codec.SensorAltitudeValid | codec.SensorFusedHeadingValid)
	binary.LittleEndian.PutUint16(r[registers.RegMPUTempC:], uint16(int16(3125)))
	binary.LittleEndian.PutUint32(r[registers.RegPressure:], uint32(1013.25*codec.Q1616Divisor))
	binary.LittleEndian.PutUint16(r[registers.RegPressTemp:], uint16(int16(2450)))
	binary.LittleEndian.PutUint16(r[registers.RegQuatW:], uint16(int16(16384)))
	return m
}

func (m *MockBoard) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	m.pending = nil
	if len(b) != protocol.PacketLen {
		return len(b), nil
	}
	p := protocol.Packet{b[0], b[1], b[2]}
	if !p.Valid() {
		// The firmware drops packets with a bad checksum and stays silent.
		return len(b), nil
	}

	addr := p.Address()
	if p.IsWrite() {
		m.store(addr, p.Value())
		return len(b), nil
	}

	end := int(addr) + int(p.Value())
	if end > len(m.regs) {
		return len(b), nil
	}
	m.refresh()
	frame := protocol.AppendFrame(nil, m.regs[addr:end])
	if m.corrupt > 0 {
		m.corrupt--
		frame[len(frame)-1] ^= 0x01
	}
	m.pending = frame
	return len(b), nil
}

func (m *MockBoard) Read(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	if len(m.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(b, m.pending)
	m.pending = m.pending[n:]
	return n, nil
}

func (m *MockBoard) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// CorruptNext flips a checksum bit in the next n response frames.
func (m *MockBoard) CorruptNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrupt = n
}

// Poke writes raw bytes into the register file, bypassing the protocol.
func (m *MockBoard) Poke(address byte, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.regs[address:], data)
}

// Registers returns a copy of the register file.
func (m *MockBoard) Registers() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.regs))
	copy(out, m.regs[:])
	return out
}

func (m *MockBoard) store(addr, value byte) {
	if !registers.Writable(addr) {
		return
	}
	if addr != registers.RegIntegrationCtl {
		m.regs[addr] = value
		return
	}

	reset := codec.ReadControlReset([]byte{value})
	axes := []struct {
		flag codec.ControlReset
		reg  int
	}{
		{codec.ResetVelX, registers.RegVelX},
		{codec.ResetVelY, registers.RegVelY},
		{codec.ResetVelZ, registers.RegVelZ},
		{codec.ResetDispX, registers.RegDispX},
		{codec.ResetDispY, registers.RegDispY},
		{codec.ResetDispZ, registers.RegDispZ},
	}
	for _, a := range axes {
		if reset.Has(a.flag) {
			clear(m.regs[a.reg : a.reg+4])
		}
	}
	if reset.Has(codec.ResetYaw) {
		m.yawOffset += float64(codec.Hundredth(m.regs[registers.RegYaw:]))
	}
}

func putHundredth(b []byte, v float64) {
	binary.LittleEndian.PutUint16(b, uint16(int16(math.Round(v*100))))
}

func putRatio(b []byte, v float32) {
	binary.LittleEndian.PutUint16(b, uint16(int16(math.Round(float64(v)*16384))))
}

// refresh encodes the next pose into the motion registers.
func (m *MockBoard) refresh() {
	r := m.regs[:]
	binary.LittleEndian.PutUint32(r[registers.RegTimestamp:], uint32(m.now().Sub(m.start).Milliseconds()))
	if m.motion == nil {
		return
	}
	pose, err := m.motion.Next()
	if err != nil {
		return
	}
	pose.Yaw = orientation.WrapDegrees(pose.Yaw - m.yawOffset)

	putHundredth(r[registers.RegYaw:], pose.Yaw)
	putHundredth(r[registers.RegRoll:], pose.Roll)
	putHundredth(r[registers.RegPitch:], pose.Pitch)
	binary.LittleEndian.PutUint16(r[registers.RegHeading:], uint16(math.Round(pose.Heading()*100)))
	binary.LittleEndian.PutUint16(r[registers.RegFusedHeading:], uint16(math.Round(pose.Heading()*100)))

	q := pose.Quaternion()
	putRatio(r[registers.RegQuatW:], q.W)
	putRatio(r[registers.RegQuatX:], q.X)
	putRatio(r[registers.RegQuatY:], q.Y)
	putRatio(r[registers.RegQuatZ:], q.Z)

	// Gravity in the body frame.
	roll, pitch := pose.Roll*math.Pi/180, pose.Pitch*math.Pi/180
	ax := -math.Sin(pitch)
	ay := math.Sin(roll) * math.Cos(pitch)
	az := math.Cos(roll) * math.Cos(pitch)
	for i, g := range []float64{ax, ay, az} {
		binary.LittleEndian.PutUint16(r[registers.RegAccX+2*i:], uint16(int16(math.Round(g*accelCountsPerG))))
	}
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/codec"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/sensors"
)

// RegisterCmd is a websocket request from the register debug page.
type RegisterCmd struct {
	Action  string `json:"action"` // get_map, read, read_all, read_record, write, set_update_rate, reset_integration, export_config
	Address string `json:"addr,omitempty"`
	Length  int    `json:"len,omitempty"`
	Value   string `json:"value,omitempty"`
	Name    string `json:"name,omitempty"`
}

// RegisterResponse is sent back for every request.
type RegisterResponse struct {
	Type        string            `json:"type"` // register_data, register_map, record, status, export_config, error
	Address     string            `json:"addr,omitempty"`
	Value       string            `json:"value,omitempty"`
	Registers   map[string]string `json:"registers,omitempty"`
	Name        string            `json:"name,omitempty"`
	Record      any               `json:"record,omitempty"`
	Timestamp   string            `json:"timestamp,omitempty"`
	Message     string            `json:"message,omitempty"`
	RegisterMap []registers.Info  `json:"register_map,omitempty"`
	Records     []registers.Info  `json:"records,omitempty"`
	Config      string            `json:"config,omitempty"`
	Filename    string            `json:"filename,omitempty"`
}

// RegisterConfigFile is the exported register dump.
type RegisterConfigFile struct {
	Version   int               `json:"version"`
	Board     string            `json:"board"`
	Timestamp string            `json:"timestamp"`
	Registers map[string]string `json:"registers"` // hex address -> hex value
}

// RegisterDebugServer exposes raw register access to one board. All bus
// traffic is serialized through mu.
type RegisterDebugServer struct {
	mu    sync.Mutex
	board *sensors.Board
}

func NewRegisterDebugServer(board *sensors.Board) *RegisterDebugServer {
	return &RegisterDebugServer{board: board}
}

// HandleWS serves one register debug websocket session.
func (s *RegisterDebugServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("register_debug: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(s.registerMap()); err != nil {
		log.Printf("register_debug: error sending register map: %v", err)
		return
	}

	for {
		var cmd RegisterCmd
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("register_debug: websocket error: %v", err)
			}
			return
		}
		if err := conn.WriteJSON(s.dispatch(cmd)); err != nil {
			log.Printf("register_debug: write error: %v", err)
			return
		}
	}
}

func (s *RegisterDebugServer) dispatch(cmd RegisterCmd) RegisterResponse {
	switch cmd.Action {
	case "get_map":
		return s.registerMap()
	case "read":
		return s.handleRead(cmd)
	case "read_all":
		return s.handleReadAll()
	case "read_record":
		return s.handleReadRecord(cmd)
	case "write":
		return s.handleWrite(cmd)
	case "set_update_rate":
		return s.handleSetUpdateRate(cmd)
	case "reset_integration":
		return s.handleResetIntegration(cmd)
	case "export_config":
		return s.handleExportConfig()
	case "":
		return errorResponse("missing or invalid action field")
	default:
		return errorResponse(fmt.Sprintf("unknown action: %s", cmd.Action))
	}
}

func errorResponse(message string) RegisterResponse {
	return RegisterResponse{Type: "error", Message: message}
}

func parseHexByte(field, s string) (byte, error) {
	var b byte
	if _, err := fmt.Sscanf(s, "0x%X", &b); err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", field, s)
	}
	return b, nil
}

func hexMap(base byte, data []byte) map[string]string {
	m := make(map[string]string, len(data))
	for i, v := range data {
		m[fmt.Sprintf("0x%02X", int(base)+i)] = fmt.Sprintf("0x%02X", v)
	}
	return m
}

func (s *RegisterDebugServer) registerMap() RegisterResponse {
	return RegisterResponse{
		Type:        "register_map",
		RegisterMap: registers.Table(),
		Records:     s.board.Registers().Registry().All(),
	}
}

func (s *RegisterDebugServer) handleRead(cmd RegisterCmd) RegisterResponse {
	addr, err := parseHexByte("address", cmd.Address)
	if err != nil {
		return errorResponse(err.Error())
	}
	n := cmd.Length
	if n == 0 {
		n = 1
	}
	if n < 0 || int(addr)+n > registers.RegisterCount {
		return errorResponse(fmt.Sprintf("read 0x%02X+%d leaves the register map", addr, n))
	}

	s.mu.Lock()
	data, err := s.board.ReadRegisters(addr, byte(n))
	s.mu.Unlock()
	if err != nil {
		return errorResponse(fmt.Sprintf("read error: %v", err))
	}

	resp := RegisterResponse{
		Type:      "register_data",
		Address:   cmd.Address,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if n == 1 {
		resp.Value = fmt.Sprintf("0x%02X", data[0])
	} else {
		resp.Registers = hexMap(addr, data)
	}
	return resp
}

func (s *RegisterDebugServer) handleReadAll() RegisterResponse {
	s.mu.Lock()
	data, err := s.board.ReadRegisters(0, registers.SnapshotLength)
	s.mu.Unlock()
	if err != nil {
		return errorResponse(fmt.Sprintf("read all error: %v", err))
	}
	return RegisterResponse{
		Type:      "register_data",
		Registers: hexMap(0, data),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// handleReadRecord reads a named record and returns it decoded.
func (s *RegisterDebugServer) handleReadRecord(cmd RegisterCmd) RegisterResponse {
	if _, err := s.board.Registers().Registry().Lookup(cmd.Name); err != nil {
		return errorResponse(err.Error())
	}

	s.mu.Lock()
	rec, err := s.board.ReadRecord(cmd.Name)
	s.mu.Unlock()
	if err != nil {
		return errorResponse(fmt.Sprintf("read %s error: %v", cmd.Name, err))
	}
	return RegisterResponse{
		Type:      "record",
		Name:      cmd.Name,
		Record:    rec,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func (s *RegisterDebugServer) handleWrite(cmd RegisterCmd) RegisterResponse {
	addr, err := parseHexByte("address", cmd.Address)
	if err != nil {
		return errorResponse(err.Error())
	}
	value, err := parseHexByte("value", cmd.Value)
	if err != nil {
		return errorResponse(err.Error())
	}

	s.mu.Lock()
	err = s.board.WriteRegister(addr, value)
	s.mu.Unlock()
	if err != nil {
		return errorResponse(fmt.Sprintf("write error: %v", err))
	}
	return RegisterResponse{
		Type:      "register_data",
		Address:   cmd.Address,
		Value:     cmd.Value,
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "write successful",
	}
}

func (s *RegisterDebugServer) handleSetUpdateRate(cmd RegisterCmd) RegisterResponse {
	var hz int
	if _, err := fmt.Sscanf(cmd.Value, "%d", &hz); err != nil || hz < 0 || hz > 255 {
		return errorResponse(fmt.Sprintf("invalid update rate: %q", cmd.Value))
	}
	s.mu.Lock()
	err := s.board.SetUpdateRate(byte(hz))
	s.mu.Unlock()
	if err != nil {
		return errorResponse(err.Error())
	}
	return RegisterResponse{Type: "status", Message: fmt.Sprintf("update rate set to %d Hz", hz)}
}

func (s *RegisterDebugServer) handleResetIntegration(cmd RegisterCmd) RegisterResponse {
	flags := codec.ResetAll
	if cmd.Value != "" {
		v, err := parseHexByte("value", cmd.Value)
		if err != nil {
			return errorResponse(err.Error())
		}
		flags = codec.ReadControlReset([]byte{v})
	}
	s.mu.Lock()
	err := s.board.ResetIntegration(flags)
	s.mu.Unlock()
	if err != nil {
		return errorResponse(err.Error())
	}
	return RegisterResponse{Type: "status", Message: fmt.Sprintf("reset %v", flags)}
}

func (s *RegisterDebugServer) handleExportConfig() RegisterResponse {
	s.mu.Lock()
	data, err := s.board.ReadRegisters(0, registers.SnapshotLength)
	s.mu.Unlock()
	if err != nil {
		return errorResponse(fmt.Sprintf("export error: %v", err))
	}

	now := time.Now()
	file := RegisterConfigFile{
		Version:   1,
		Board:     s.board.Name(),
		Timestamp: now.Format(time.RFC3339),
		Registers: hexMap(0, data),
	}
	configJSON, err := json.Marshal(file)
	if err != nil {
		return errorResponse(err.Error())
	}
	return RegisterResponse{
		Type:     "export_config",
		Message:  "config exported",
		Config:   string(configJSON),
		Filename: fmt.Sprintf("navx_%s_registers.json", now.Format("20060102_150405")),
	}
}

// HandleSnapshot serves the decoded register file via REST.
func (s *RegisterDebugServer) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	s.mu.Lock()
	snap, err := s.board.Snapshot()
	s.mu.Unlock()
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error": %q}`, err.Error()), http.StatusBadGateway)
		return
	}
	writeJSON(w, snap)
}

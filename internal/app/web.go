// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/config"
	"github.com/relabs-tech/navx/internal/registers"
	"github.com/relabs-tech/navx/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// liveState keeps the last message seen on each topic.
type liveState struct {
	mu          sync.RWMutex
	identity    *registers.Identity
	orientation *OrientationMessage
	quaternion  *registers.Quaternion
	motion      *MotionMessage
	status      *StatusMessage
}

func (s *liveState) setIdentity(v registers.Identity) {
	s.mu.Lock()
	s.identity = &v
	s.mu.Unlock()
}

func (s *liveState) setOrientation(v OrientationMessage) {
	s.mu.Lock()
	s.orientation = &v
	s.mu.Unlock()
}

func (s *liveState) setQuaternion(v registers.Quaternion) {
	s.mu.Lock()
	s.quaternion = &v
	s.mu.Unlock()
}

func (s *liveState) setMotion(v MotionMessage) {
	s.mu.Lock()
	s.motion = &v
	s.mu.Unlock()
}

func (s *liveState) setStatus(v StatusMessage) {
	s.mu.Lock()
	s.status = &v
	s.mu.Unlock()
}

// streamFrame is one websocket push.
type streamFrame struct {
	Orientation *OrientationMessage   `json:"orientation,omitempty"`
	Quaternion  *registers.Quaternion `json:"quaternion,omitempty"`
	Motion      *MotionMessage        `json:"motion,omitempty"`
}

func (s *liveState) frame() (streamFrame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := streamFrame{Orientation: s.orientation, Quaternion: s.quaternion, Motion: s.motion}
	return f, f.Orientation != nil || f.Quaternion != nil || f.Motion != nil
}

// webServer serves the live state and the recorded history.
type webServer struct {
	state    *liveState
	history  *store.Store // nil when no recorder database is available
	interval time.Duration
}

func (ws *webServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/identity", ws.serveLatest(func(s *liveState) (any, bool) { return s.identity, s.identity != nil }))
	mux.HandleFunc("/api/orientation", ws.serveLatest(func(s *liveState) (any, bool) { return s.orientation, s.orientation != nil }))
	mux.HandleFunc("/api/quaternion", ws.serveLatest(func(s *liveState) (any, bool) { return s.quaternion, s.quaternion != nil }))
	mux.HandleFunc("/api/motion", ws.serveLatest(func(s *liveState) (any, bool) { return s.motion, s.motion != nil }))
	mux.HandleFunc("/api/status", ws.serveLatest(func(s *liveState) (any, bool) { return s.status, s.status != nil }))
	mux.HandleFunc("/api/registers", serveRegisterTable)
	mux.HandleFunc("/api/history", ws.serveHistory)
	mux.HandleFunc("/ws/stream", ws.serveStream)
	mux.Handle("/", http.FileServer(http.Dir("web")))
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// serveLatest answers with the value pick returns, or 503 before the
// first message on that topic.
func (ws *webServer) serveLatest(pick func(*liveState) (any, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws.state.mu.RLock()
		v, ok := pick(ws.state)
		ws.state.mu.RUnlock()

		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, v)
	}
}

func serveRegisterTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, registers.Table())
}

// serveHistory returns recorded samples. ?limit=N (default 100, max 10000).
func (ws *webServer) serveHistory(w http.ResponseWriter, r *http.Request) {
	if ws.history == nil {
		http.Error(w, "no recorder database", http.StatusNotFound)
		return
	}
	limit := 100
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 10000 {
			http.Error(w, fmt.Sprintf("invalid limit %q", q), http.StatusBadRequest)
			return
		}
		limit = n
	}
	samples, err := ws.history.Recent(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, samples)
}

// serveStream pushes the live state to a websocket client at the
// publish interval until the client goes away.
func (ws *webServer) serveStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(ws.interval)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			f, ok := ws.state.frame()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(f); err != nil {
				log.Debugf("stream: write error: %v", err)
				return
			}
		}
	}
}

func RunWeb() error {
	cfg := config.Get()
	state := &liveState{}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON(client, cfg.TopicIdentity, state.setIdentity); err != nil {
		return err
	}
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

	ws := &webServer{state: state, interval: time.Duration(cfg.PublishInterval) * time.Millisecond}
	if cfg.RecorderDBPath != "" {
		if db, err := store.Open(cfg.RecorderDBPath); err != nil {
			log.Printf("Warning: history disabled: %v", err)
		} else {
			defer db.Close()
			ws.history = db
		}
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, ws.routes())
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/app"
	"github.com/relabs-tech/navx/internal/config"
	"github.com/relabs-tech/navx/internal/sensors"
)

func main() {
	log.Println("starting navX register debug tool (standalone)")

	if err := config.InitGlobal(config.DefaultPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	board, err := sensors.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open navX: %v", err)
	}
	defer board.Close()

	srv := app.NewRegisterDebugServer(board)
	http.HandleFunc("/ws", srv.HandleWS)
	http.HandleFunc("/api/snapshot", srv.HandleSnapshot)
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	addr := fmt.Sprintf(":%d", cfg.RegisterDebugPort)
	log.Printf("Register debug tool listening on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

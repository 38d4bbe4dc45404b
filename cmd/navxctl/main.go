// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/navx/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		log.Errorln(err)
		os.Exit(1)
	}
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultPath is the configuration file the commands load.
const DefaultPath = "navx_config.txt"

// Transport kinds accepted by NAVX_TRANSPORT.
const (
	TransportSPI    = "spi"
	TransportSerial = "serial"
	TransportMock   = "mock"
)

// Config holds all application configuration values.
type Config struct {
	// navX board
	Transport             string
	SPIDevice             string
	SPISpeedHz            int64
	SPIResponseDelayUS    int
	SerialPort            string
	SerialBaudRate        uint
	RegisterMapPath       string
	UpdateRateHz          byte // 0 leaves the board's rate unchanged
	PollIntervalMS        int  // 0 polls back to back
	ResetIntegrationStart bool

	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string
	MQTTClientIDRecorder string

	// Topics
	TopicOrientation string
	TopicQuaternion  string
	TopicIMURaw      string
	TopicStatus      string
	TopicMotion      string
	TopicIdentity    string

	// Timing
	PublishInterval    int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort     int
	RegisterDebugPort int

	// Display
	DisplayI2CBus         string // empty selects the first bus
	DisplayUpdateInterval int    // milliseconds

	// Recorder
	RecorderDBPath   string
	RecorderInterval int // milliseconds

	LogLevel string
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for initialization,
//     read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		Transport:          TransportSPI,
		SPIDevice:          "/dev/spidev0.0",
		SPISpeedHz:         500_000,
		SPIResponseDelayUS: 200,
		SerialBaudRate:     57600,

		MQTTClientIDProducer: "navx-producer",
		MQTTClientIDConsole:  "navx-console",
		MQTTClientIDWeb:      "navx-web",
		MQTTClientIDDisplay:  "navx-display",
		MQTTClientIDRecorder: "navx-recorder",

		TopicOrientation: "navx/orientation",
		TopicQuaternion:  "navx/quaternion",
		TopicIMURaw:      "navx/imu/raw",
		TopicStatus:      "navx/status",
		TopicMotion:      "navx/motion",
		TopicIdentity:    "navx/identity",

		PublishInterval:    50,
		ConsoleLogInterval: 1000,

		WebServerPort:     8080,
		RegisterDebugPort: 8081,

		DisplayI2CBus:         "",
		DisplayUpdateInterval: 250,

		RecorderDBPath:   "navx.db",
		RecorderInterval: 1000,

		LogLevel: "info",
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads KEY=VALUE lines from r on top of Default().
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func atoiRange(key, value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, n)
	}
	return n, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// navX board
	case "NAVX_TRANSPORT":
		switch value {
		case TransportSPI, TransportSerial, TransportMock:
			c.Transport = value
		default:
			return fmt.Errorf("NAVX_TRANSPORT must be spi, serial or mock, got %q", value)
		}
	case "NAVX_SPI_DEVICE":
		c.SPIDevice = value
	case "NAVX_SPI_SPEED_HZ":
		hz, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid NAVX_SPI_SPEED_HZ %q: %w", value, err)
		}
		// The board's SPI slave tops out at 2 MHz.
		if hz < 10_000 || hz > 2_000_000 {
			return fmt.Errorf("NAVX_SPI_SPEED_HZ must be 10000-2000000, got %d", hz)
		}
		c.SPISpeedHz = hz
	case "NAVX_SPI_RESPONSE_DELAY_US":
		us, err := atoiRange(key, value, 0, 100_000)
		if err != nil {
			return err
		}
		c.SPIResponseDelayUS = us
	case "NAVX_SERIAL_PORT":
		c.SerialPort = value
	case "NAVX_SERIAL_BAUD_RATE":
		rate, err := atoiRange(key, value, 1200, 921600)
		if err != nil {
			return err
		}
		c.SerialBaudRate = uint(rate)
	case "NAVX_REGISTER_MAP":
		c.RegisterMapPath = value
	case "NAVX_UPDATE_RATE_HZ":
		if value == "0" {
			c.UpdateRateHz = 0
			break
		}
		rate, err := atoiRange(key, value, 4, 200)
		if err != nil {
			return err
		}
		c.UpdateRateHz = byte(rate)
	case "NAVX_POLL_INTERVAL":
		ms, err := atoiRange(key, value, 0, 60_000)
		if err != nil {
			return err
		}
		c.PollIntervalMS = ms
	case "NAVX_RESET_INTEGRATION":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid NAVX_RESET_INTEGRATION %q: %w", value, err)
		}
		c.ResetIntegrationStart = b

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "MQTT_CLIENT_ID_RECORDER":
		c.MQTTClientIDRecorder = value

	// Topics
	case "TOPIC_ORIENTATION":
		c.TopicOrientation = value
	case "TOPIC_QUATERNION":
		c.TopicQuaternion = value
	case "TOPIC_IMU_RAW":
		c.TopicIMURaw = value
	case "TOPIC_STATUS":
		c.TopicStatus = value
	case "TOPIC_MOTION":
		c.TopicMotion = value
	case "TOPIC_IDENTITY":
		c.TopicIdentity = value

	// Timing
	case "PUBLISH_INTERVAL":
		interval, err := atoiRange(key, value, 1, 3_600_000)
		if err != nil {
			return err
		}
		c.PublishInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := atoiRange(key, value, 1, 3_600_000)
		if err != nil {
			return err
		}
		c.ConsoleLogInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := atoiRange(key, value, 1, 65535)
		if err != nil {
			return err
		}
		c.WebServerPort = port
	case "REGISTER_DEBUG_PORT":
		port, err := atoiRange(key, value, 1, 65535)
		if err != nil {
			return err
		}
		c.RegisterDebugPort = port

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := atoiRange(key, value, 1, 3_600_000)
		if err != nil {
			return err
		}
		c.DisplayUpdateInterval = interval

	// Recorder
	case "RECORDER_DB_PATH":
		c.RecorderDBPath = value
	case "RECORDER_INTERVAL":
		interval, err := atoiRange(key, value, 1, 3_600_000)
		if err != nil {
			return err
		}
		c.RecorderInterval = interval

	case "LOG_LEVEL":
		if _, err := log.ParseLevel(value); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", value, err)
		}
		c.LogLevel = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	switch c.Transport {
	case TransportSPI:
		if c.SPIDevice == "" {
			return fmt.Errorf("NAVX_SPI_DEVICE is required for the spi transport")
		}
	case TransportSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("NAVX_SERIAL_PORT is required for the serial transport")
		}
	}
	return nil
}

// SPIResponseDelay is the wait between a request and its response.
func (c *Config) SPIResponseDelay() time.Duration {
	return time.Duration(c.SPIResponseDelayUS) * time.Microsecond
}

// PollInterval is the wait between two polls of the board.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// ApplyLogLevel sets the process log level from LOG_LEVEL.
func (c *Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
		if err == nil {
			globalConfig.ApplyLogLevel()
		}
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

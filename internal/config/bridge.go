// Package config provides configuration helpers for go-manipulate commands.
package config

import (
	"os"
	"strconv"
)

// Default bridge configuration.
const (
	DefaultBridgePort = "8090"
	DefaultLogLevel   = "info"
)

// BridgePort returns the bridge listen port from BRIDGE_PORT env var.
// Falls back to the default if not set.
func BridgePort() string {
	if port := os.Getenv("BRIDGE_PORT"); port != "" {
		return port
	}
	return DefaultBridgePort
}

// LogLevel returns the log level from LOG_LEVEL env var or default.
func LogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return DefaultLogLevel
}

// BridgeURL returns the bridge websocket URL for client commands.
func BridgeURL(host string) string {
	return "ws://" + host + ":" + BridgePort() + "/ws/host"
}

// FrameRate returns the simulated frame rate from FRAME_RATE env var.
// Falls back to the provided default if not set or unparseable.
func FrameRate(defaultHz int) int {
	if v := os.Getenv("FRAME_RATE"); v != "" {
		if hz, err := strconv.Atoi(v); err == nil && hz > 0 {
			return hz
		}
	}
	return defaultHz
}

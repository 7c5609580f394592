// Package serial provides host-side access to the firmware's diagnostic
// serial link.
package serial

import "io"

// Port is a host serial connection carrying the diagnostic stream.
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration.
type Config struct {
	// Device path, e.g. "/dev/ttyACM0" or "COM3".
	Device string

	// Baud rate. Ignored for USB CDC devices.
	Baud int

	// ReadTimeout in milliseconds; zero blocks.
	ReadTimeout int
}

// DefaultConfig returns the configuration matching the firmware's
// diagnostic UART.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

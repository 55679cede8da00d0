//go:build !windows

package uart

import (
	"go.bug.st/serial"
)

// getSerialPortsFallback lists ports without USB metadata when the
// detailed enumeration is unavailable.
func getSerialPortsFallback() ([]serialPort, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}

	ports := make([]serialPort, 0, len(names))
	for _, name := range names {
		ports = append(ports, serialPort{
			Path: name,
			Name: name,
		})
	}
	return ports, nil
}

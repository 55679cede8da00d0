//go:build windows

package uart

import (
	"golang.org/x/sys/windows/registry"
)

// getSerialPortsFallback reads COM ports from the Windows registry when
// the detailed enumeration is unavailable. Registry entries carry no USB
// metadata, so these ports detect at zero confidence.
func getSerialPortsFallback() ([]serialPort, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `HARDWARE\DEVICEMAP\SERIALCOMM`, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	values, err := key.ReadValueNames(-1)
	if err != nil {
		return nil, err
	}

	ports := make([]serialPort, 0, len(values))
	for _, value := range values {
		portName, _, err := key.GetStringValue(value)
		if err != nil {
			continue
		}

		ports = append(ports, serialPort{
			Path: portName,
			Name: portName,
		})
	}

	return ports, nil
}

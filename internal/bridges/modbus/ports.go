package modbus

import (
	"fmt"
	"sort"

	"go.bug.st/serial"
)

// PortLister enumerates serial port names available on the host.
type PortLister interface {
	ListPorts() ([]string, error)
}

// SystemPorts lists the serial ports of the local machine.
type SystemPorts struct{}

// ListPorts implements PortLister. Names are returned sorted.
func (SystemPorts) ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("%w: listing serial ports: %w", ErrIO, err)
	}
	sort.Strings(ports)
	return ports, nil
}

package printer

import (
	"fmt"
	"net"
	"strings"
)

// Transport identifies how bytes reach a printer.
type Transport string

const (
	TransportNone    Transport = "none"
	TransportNetwork Transport = "network"
	TransportUSB     Transport = "usb"
	TransportSerial  Transport = "serial"
	TransportFile    Transport = "file"
)

// DefaultPort is the raw printing port used by most thermal printers.
const DefaultPort = "9100"

// Endpoint is a parsed printer address.
type Endpoint struct {
	Transport Transport `json:"transport"`
	Address   string    `json:"address"`
	// Raw endpoints receive plain text without ESC/POS control codes.
	Raw bool `json:"raw"`
}

func (e Endpoint) String() string {
	switch e.Transport {
	case TransportNone:
		return "none"
	case TransportNetwork:
		if e.Raw {
			return "raw://" + e.Address
		}
		return e.Address
	default:
		return string(e.Transport) + ":" + e.Address
	}
}

// ParseEndpoint understands the forms stored in the printer configuration:
//
//	192.168.1.50            network, ESC/POS, port 9100
//	192.168.1.50:9101       network, ESC/POS
//	raw://192.168.1.50:9100 network, plain text
//	usb:/dev/usb/lp0        USB device (a bare /dev/usb/... path also works)
//	serial:/dev/ttyS0       serial device
//	file:/var/spool/kot.txt append to a file, plain text
//	none                    disabled
func ParseEndpoint(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || strings.EqualFold(s, "none"):
		return Endpoint{Transport: TransportNone}, nil
	case strings.HasPrefix(s, "raw://"):
		addr, err := withDefaultPort(strings.TrimPrefix(s, "raw://"))
		if err != nil {
			return Endpoint{}, err
		}
		return Endpoint{Transport: TransportNetwork, Address: addr, Raw: true}, nil
	case strings.HasPrefix(s, "tcp://"):
		addr, err := withDefaultPort(strings.TrimPrefix(s, "tcp://"))
		if err != nil {
			return Endpoint{}, err
		}
		return Endpoint{Transport: TransportNetwork, Address: addr}, nil
	case strings.HasPrefix(s, "usb:"):
		return devicePath(TransportUSB, strings.TrimPrefix(s, "usb:"))
	case strings.HasPrefix(s, "serial:"):
		return devicePath(TransportSerial, strings.TrimPrefix(s, "serial:"))
	case strings.HasPrefix(s, "file:"):
		return devicePath(TransportFile, strings.TrimPrefix(s, "file:"))
	case strings.HasPrefix(s, "/dev/tty"), strings.HasPrefix(s, "COM"):
		return devicePath(TransportSerial, s)
	case strings.HasPrefix(s, "/"):
		return devicePath(TransportUSB, s)
	}

	addr, err := withDefaultPort(s)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{Transport: TransportNetwork, Address: addr}, nil
}

func devicePath(t Transport, path string) (Endpoint, error) {
	if path == "" {
		return Endpoint{}, fmt.Errorf("printer: %s endpoint needs a path", t)
	}
	return Endpoint{Transport: t, Address: path, Raw: t == TransportFile}, nil
}

func withDefaultPort(addr string) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("printer: empty network address")
	}
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr, nil
	}
	if strings.ContainsAny(addr, "/ ") {
		return "", fmt.Errorf("printer: invalid network address %q", addr)
	}
	return net.JoinHostPort(addr, DefaultPort), nil
}

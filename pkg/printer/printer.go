package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Printer is the transport capability shared by every printer back end.
type Printer interface {
	// Print delivers an already framed payload to the device.
	Print(ctx context.Context, data []byte) error
	// Close releases the printer connection/handle.
	Close() error
	// IsConnected returns true if the device currently looks reachable.
	IsConnected() bool
}

// Factory builds a Printer for an endpoint. Dispatch takes one so tests can
// swap real transports out.
type Factory func(ep Endpoint) (Printer, error)

// NewFactory returns the production factory using the given dial timeout
// for network printers.
func NewFactory(dialTimeout time.Duration) Factory {
	return func(ep Endpoint) (Printer, error) {
		return New(ep, dialTimeout)
	}
}

// New creates the Printer matching the endpoint's transport.
func New(ep Endpoint, dialTimeout time.Duration) (Printer, error) {
	switch ep.Transport {
	case TransportNetwork:
		if ep.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer")
		}
		return NewNetworkPrinter(ep.Address, dialTimeout), nil
	case TransportUSB:
		return NewUSBPrinter(ep.Address), nil
	case TransportSerial:
		return NewSerialPrinter(ep.Address), nil
	case TransportFile:
		return NewFilePrinter(ep.Address), nil
	case TransportNone:
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown transport %q", ep.Transport)
	}
}

// --- Device printer (USB line printer or serial port, both plain device files) ---

type devicePrinter struct {
	kind string
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file, e.g. /dev/usb/lp0.
func NewUSBPrinter(devicePath string) Printer {
	return &devicePrinter{kind: "USB", path: devicePath}
}

// NewSerialPrinter creates a printer that writes to a serial device, e.g. /dev/ttyS0.
// Line settings are expected to be configured on the host.
func NewSerialPrinter(devicePath string) Printer {
	return &devicePrinter{kind: "serial", path: devicePath}
}

func (p *devicePrinter) Print(ctx context.Context, data []byte) error {
	return withContext(ctx, func() error {
		f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("printer: failed to open %s device %s: %w", p.kind, p.path, err)
		}
		defer f.Close()

		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("printer: failed to write to %s device %s: %w", p.kind, p.path, err)
		}
		return nil
	})
}

func (p *devicePrinter) Close() error {
	return nil // device is opened per job
}

func (p *devicePrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// --- Network Printer (dials TCP, e.g. 192.168.1.100:9100) ---

type networkPrinter struct {
	address string
	timeout time.Duration
}

// NewNetworkPrinter creates a printer that connects via TCP.
// Address should include port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string, timeout time.Duration) Printer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &networkPrinter{
		address: address,
		timeout: timeout,
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(10 * time.Second)
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error {
	return nil // connection is opened per job
}

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// --- File Printer (appends to a local file, handy for spooling and kiosks without hardware) ---

type filePrinter struct {
	path string
}

// NewFilePrinter creates a printer that appends each job to a file.
func NewFilePrinter(path string) Printer {
	return &filePrinter{path: path}
}

func (p *filePrinter) Print(ctx context.Context, data []byte) error {
	return withContext(ctx, func() error {
		f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("printer: failed to open file %s: %w", p.path, err)
		}
		defer f.Close()

		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("printer: failed to write file %s: %w", p.path, err)
		}
		return nil
	})
}

func (p *filePrinter) Close() error {
	return nil
}

func (p *filePrinter) IsConnected() bool {
	info, err := os.Stat(filepath.Dir(p.path))
	return err == nil && info.IsDir()
}

// --- Null Printer (no-op, used when no printer is configured) ---

type nullPrinter struct{}

// NewNullPrinter creates a no-op printer for environments without hardware.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(ctx context.Context, data []byte) error {
	return nil
}

func (p *nullPrinter) Close() error {
	return nil
}

func (p *nullPrinter) IsConnected() bool {
	return false
}

// withContext runs a blocking write and gives up when ctx is done. A device
// write that never returns is abandoned, not interrupted.
func withContext(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("printer: %w", ctx.Err())
	}
}

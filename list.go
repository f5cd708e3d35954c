package serial

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Regular expressions for different types of serial devices
var portPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
	regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
	regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
	regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
	regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
	regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
	regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
	regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
}

// ListPorts returns a list of available serial ports on the system
func ListPorts() ([]string, error) {
	return listPortsIn("/dev")
}

func listPortsIn(devDir string) ([]string, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		if !isSerialName(entry.Name()) {
			continue
		}
		fullPath := filepath.Join(devDir, entry.Name())
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

// isSerialName reports whether a /dev entry name looks like a serial port.
// Virtual terminals (tty1), console and pty devices never match.
func isSerialName(name string) bool {
	for _, pattern := range portPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo describes a serial port and, for USB adapters, the device behind it
type PortInfo struct {
	Name         string
	Path         string
	Description  string
	IsUSB        bool
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}
	info := newPortInfo(portPath)
	enrichUSBInfo(info, usbDetails())
	return info, nil
}

// ListPortInfo returns PortInfo for every port ListPorts finds. USB details
// are enumerated once for the whole list.
func ListPortInfo() ([]*PortInfo, error) {
	ports, err := ListPorts()
	if err != nil {
		return nil, err
	}

	details := usbDetails()
	infos := make([]*PortInfo, 0, len(ports))
	for _, p := range ports {
		info := newPortInfo(p)
		enrichUSBInfo(info, details)
		infos = append(infos, info)
	}
	return infos, nil
}

func newPortInfo(portPath string) *PortInfo {
	name := filepath.Base(portPath)
	return &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
	}
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// usbDetails indexes the enumerator's USB metadata by device path. Enumeration
// failures leave the map empty; USB details are best effort.
func usbDetails() map[string]*enumerator.PortDetails {
	details := make(map[string]*enumerator.PortDetails)
	list, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return details
	}
	for _, d := range list {
		details[d.Name] = d
	}
	return details
}

func enrichUSBInfo(info *PortInfo, details map[string]*enumerator.PortDetails) {
	d, ok := details[info.Path]
	if !ok || !d.IsUSB {
		return
	}
	info.IsUSB = true
	info.VendorID = d.VID
	info.ProductID = d.PID
	info.SerialNumber = d.SerialNumber
	info.Product = d.Product
}

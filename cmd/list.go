/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/allbin/go-serial-probe"
	"github.com/allbin/go-serial-probe/internal/ui"
	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"
)

var portFilters = []string{"all", "usb", "standard", "arm"}

// newListCmd builds the list command
func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available serial ports",
		Long: `List all available serial ports on the system.

This command scans for communication-capable serial devices including:
- USB serial adapters (ttyUSB*)
- USB CDC/ACM devices (ttyACM*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)
- And other platform-specific serial devices

Virtual terminals and pseudo-terminals are excluded from the listing.
With --table, USB ports also show vendor, product and serial number.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unexpected argument %q", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			filterType, _ := cmd.Flags().GetString("filter")
			tableFormat, _ := cmd.Flags().GetBool("table")

			filterType = strings.ToLower(filterType)
			if filterType != "" && !isKnownFilter(filterType) {
				return usagef("unknown filter %q: use one of %s", filterType, strings.Join(portFilters, ", "))
			}

			infos, err := serial.ListPortInfo()
			if err != nil {
				return fmt.Errorf("listing ports: %w", err)
			}

			return renderPorts(cmd.OutOrStdout(), filterPorts(infos, filterType), filterType, tableFormat)
		},
	}

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: "+strings.Join(portFilters, ", "))
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")

	return listCmd
}

func isKnownFilter(filterType string) bool {
	for _, f := range portFilters {
		if f == filterType {
			return true
		}
	}
	return false
}

func renderPorts(out io.Writer, ports []*serial.PortInfo, filterType string, tableFormat bool) error {
	if len(ports) == 0 {
		if filterType != "" && filterType != "all" {
			fmt.Fprintf(out, "No serial ports found matching filter: %s\n", filterType)
		} else {
			fmt.Fprintln(out, "No serial ports found")
		}
		return nil
	}

	if tableFormat {
		renderTable(out, ports)
	} else {
		renderSimple(out, ports)
	}
	return nil
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []*serial.PortInfo, filterType string) []*serial.PortInfo {
	if filterType == "" || filterType == "all" {
		return ports
	}

	var filtered []*serial.PortInfo
	for _, info := range ports {
		name := strings.ToLower(info.Name)
		switch filterType {
		case "usb":
			if info.IsUSB || strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, info)
			}
		case "standard":
			if strings.HasPrefix(name, "ttys") && !strings.HasPrefix(name, "ttysac") {
				filtered = append(filtered, info)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, info)
			}
		}
	}
	return filtered
}

// renderTable renders the port list in a styled static table format
func renderTable(out io.Writer, ports []*serial.PortInfo) {
	fmt.Fprintln(out, ui.TitleStyle.Render(fmt.Sprintf("Found %d serial port(s):", len(ports))))
	fmt.Fprintln(out)

	columns := []table.Column{
		{Title: "Port", Width: 12},
		{Title: "Type", Width: 16},
		{Title: "Description", Width: 24},
		{Title: "VID:PID", Width: 10},
		{Title: "Serial", Width: 16},
	}

	rows := make([]table.Row, 0, len(ports))
	for _, info := range ports {
		ids := ""
		if info.IsUSB {
			ids = info.VendorID + ":" + info.ProductID
		}
		desc := info.Description
		if info.Product != "" {
			desc = info.Product
		}
		rows = append(rows, table.Row{info.Name, getPortType(info.Name), desc, ids, info.SerialNumber})
	}

	fmt.Fprintln(out, ui.RenderTable(columns, rows))
}

// renderSimple renders the port list in simple text format
func renderSimple(out io.Writer, ports []*serial.PortInfo) {
	for _, info := range ports {
		fmt.Fprintln(out, info.Path)
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}

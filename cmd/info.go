/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/allbin/go-serial-probe"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newInfoCmd builds the info command. Port names resolve the same way as
// for the root command.
func newInfoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "info <port>",
		Short: "Display detailed information about a serial port",
		Long: `Display detailed information about a serial port including USB metadata.

Examples:
  serialprobe info USB0
  serialprobe info /dev/ttyACM0

For USB devices, this displays vendor/product IDs, the serial number and
the product name reported by the device.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("accepts 1 port argument, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := serial.ResolvePortPath(args[0], v.GetString("port-prefix"))

			info, err := serial.GetPortInfo(path)
			if err != nil {
				return fmt.Errorf("getting port info for %s: %w", path, err)
			}

			renderInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

func renderInfo(out io.Writer, info *serial.PortInfo) {
	fmt.Fprintf(out, "Port Information: %s\n\n", info.Path)
	fmt.Fprintf(out, "  Name:        %s\n", info.Name)
	fmt.Fprintf(out, "  Description: %s\n", info.Description)
	fmt.Fprintf(out, "  Type:        %s\n", getPortType(info.Name))

	if !info.IsUSB {
		return
	}

	fmt.Fprintln(out, "\nUSB Device Information:")
	if info.VendorID != "" {
		fmt.Fprintf(out, "  Vendor ID:    %s\n", info.VendorID)
	}
	if info.ProductID != "" {
		fmt.Fprintf(out, "  Product ID:   %s\n", info.ProductID)
	}
	if info.SerialNumber != "" {
		fmt.Fprintf(out, "  Serial:       %s\n", info.SerialNumber)
	}
	if info.Product != "" {
		fmt.Fprintf(out, "  Product:      %s\n", info.Product)
	}
}

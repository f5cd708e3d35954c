// Package serial sends a payload to a serial device and collects whatever the
// device answers until the line goes quiet.
//
// The device is opened in raw mode (8N1, no flow control, no echo, no line
// editing, no output post-processing) so every byte value travels unchanged
// in both directions.
//
// # Basic Usage
//
// Open a port, keeping the speed it is already set to:
//
//	port, err := serial.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	payload, err := serial.DecodeHex("00ABC8DF")
//	res, err := serial.Exchange(ctx, port, payload, serial.CollectConfig{
//	    Quiescence: 500 * time.Millisecond,
//	})
//	fmt.Printf("Response: %s\n", serial.EncodeHex(res.Response))
//
// # Quiescence
//
// Collect waits up to Quiescence for the device to become readable, drains
// what is pending and waits again with the full window. The session ends the
// first time a whole window passes in silence, so a device that keeps talking
// with shorter gaps keeps it open. The response buffer starts empty and grows
// by GrowthStep bytes whenever it fills up.
//
// # Configuration Options
//
//	port, err := serial.Open(serial.ResolvePortPath("USB0", serial.DefaultPortPrefix),
//	    serial.WithBaudRate(9600),
//	)
//
// # Checksums
//
// AppendCRC adds a CRC-16 trailer in the byte order the protocol expects:
//
//	frame, err := serial.AppendCRC([]byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01}, "modbus")
//
// # Port Discovery
//
//	infos, err := serial.ListPortInfo()
//	for _, info := range infos {
//	    fmt.Printf("%s: %s (VID=%s PID=%s)\n", info.Path, info.Description, info.VendorID, info.ProductID)
//	}
//
// # Error Handling
//
// Every failure of Open, Send, Collect and Exchange wraps one of ErrOpen,
// ErrConfigure, ErrWrite, ErrWait or ErrRead. Use errors.Is:
//
//	if errors.Is(err, serial.ErrDeviceNotFound) {
//	    // no such port
//	}
//
// # Platform Support
//
// Linux only. Terminal control goes through golang.org/x/sys/unix and USB
// metadata through sysfs.
package serial

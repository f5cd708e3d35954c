package serial

import (
	"fmt"
	"sort"

	"github.com/sigurn/crc16"
)

type checksum struct {
	table        *crc16.Table
	lowByteFirst bool
}

// Supported CRC-16 trailers, keyed by the name accepted on the command line.
var checksums = map[string]checksum{
	"modbus":      {crc16.MakeTable(crc16.CRC16_MODBUS), true},
	"kermit":      {crc16.MakeTable(crc16.CRC16_KERMIT), true},
	"arc":         {crc16.MakeTable(crc16.CRC16_ARC), true},
	"xmodem":      {crc16.MakeTable(crc16.CRC16_XMODEM), false},
	"ccitt-false": {crc16.MakeTable(crc16.CRC16_CCITT_FALSE), false},
}

// ChecksumNames lists the algorithms AppendCRC understands.
func ChecksumNames() []string {
	names := make([]string, 0, len(checksums))
	for name := range checksums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AppendCRC returns a copy of payload with a CRC-16 trailer appended.
// Modbus, Kermit and ARC put the low byte first, the others the high byte.
func AppendCRC(payload []byte, algo string) ([]byte, error) {
	c, ok := checksums[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChecksum, algo)
	}

	sum := crc16.Checksum(payload, c.table)
	out := make([]byte, len(payload), len(payload)+2)
	copy(out, payload)
	if c.lowByteFirst {
		return append(out, byte(sum), byte(sum>>8)), nil
	}
	return append(out, byte(sum>>8), byte(sum)), nil
}

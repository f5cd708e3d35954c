package serial

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHex parses a hex string such as "00ABC8DF" into bytes.
//
// Whitespace and 0x/0X prefixes are ignored, both letter cases are accepted.
// Odd length or a non-hex digit yields an error wrapping ErrInvalidHexInput.
func DecodeHex(s string) ([]byte, error) {
	cleaned := strings.Join(strings.Fields(s), "")
	cleaned = strings.ReplaceAll(cleaned, "0x", "")
	cleaned = strings.ReplaceAll(cleaned, "0X", "")

	if len(cleaned)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of digits in %q", ErrInvalidHexInput, s)
	}

	data, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidHexInput, s, err)
	}
	return data, nil
}

// EncodeHex renders bytes as two uppercase hex digits each, without separators.
func EncodeHex(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

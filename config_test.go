package serial

import "testing"

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BaudRate != 0 {
		t.Errorf("Expected BaudRate 0 (keep current), got %d", config.BaudRate)
	}

	if config.DataBits != 8 {
		t.Errorf("Expected DataBits 8, got %d", config.DataBits)
	}

	if config.StopBits != 1 {
		t.Errorf("Expected StopBits 1, got %d", config.StopBits)
	}

	if config.Parity != ParityNone {
		t.Errorf("Expected Parity None, got %v", config.Parity)
	}
}

func TestFunctionalOptions(t *testing.T) {
	config := DefaultConfig()

	if err := WithBaudRate(9600)(&config); err != nil {
		t.Errorf("WithBaudRate failed: %v", err)
	}
	if config.BaudRate != 9600 {
		t.Errorf("Expected BaudRate 9600, got %d", config.BaudRate)
	}

	if err := WithBaudRate(0)(&config); err != nil {
		t.Errorf("WithBaudRate(0) failed: %v", err)
	}
	if config.BaudRate != 0 {
		t.Errorf("Expected BaudRate 0, got %d", config.BaudRate)
	}

	if err := WithDataBits(7)(&config); err != nil {
		t.Errorf("WithDataBits failed: %v", err)
	}
	if config.DataBits != 7 {
		t.Errorf("Expected DataBits 7, got %d", config.DataBits)
	}

	if err := WithStopBits(2)(&config); err != nil {
		t.Errorf("WithStopBits failed: %v", err)
	}
	if config.StopBits != 2 {
		t.Errorf("Expected StopBits 2, got %d", config.StopBits)
	}

	if err := WithParity(ParityEven)(&config); err != nil {
		t.Errorf("WithParity failed: %v", err)
	}
	if config.Parity != ParityEven {
		t.Errorf("Expected Parity Even, got %v", config.Parity)
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"baud rate", WithBaudRate(123456), ErrInvalidBaudRate},
		{"negative baud rate", WithBaudRate(-9600), ErrInvalidBaudRate},
		{"data bits", WithDataBits(9), ErrInvalidConfig},
		{"stop bits", WithStopBits(3), ErrInvalidConfig},
		{"parity", WithParity(Parity(42)), ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			if err := tt.opt(&config); err != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if config != DefaultConfig() {
				t.Errorf("Rejected option modified config: %+v", config)
			}
		})
	}
}

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    int
		hasError bool
	}{
		{115200, false},
		{9600, false},
		{57600, false},
		{4000000, false},
		{123456, true},
		{0, true},
	}

	for _, test := range tests {
		result, err := getBaudRate(test.input)
		if test.hasError {
			if err != ErrInvalidBaudRate {
				t.Errorf("Expected ErrInvalidBaudRate for %d, got %v", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for baud rate %d: %v", test.input, err)
		}
		if result == 0 {
			t.Errorf("Got zero result for valid baud rate %d", test.input)
		}
	}
}

func TestResolvePortPath(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		expected string
	}{
		{"USB0", DefaultPortPrefix, "/dev/ttyUSB0"},
		{"S1", DefaultPortPrefix, "/dev/ttyS1"},
		{"/dev/pts/3", DefaultPortPrefix, "/dev/pts/3"},
		{"cu.usbserial", "/dev/", "/dev/cu.usbserial"},
		{"ttyACM0", "", "ttyACM0"},
	}

	for _, test := range tests {
		result := ResolvePortPath(test.name, test.prefix)
		if result != test.expected {
			t.Errorf("ResolvePortPath(%q, %q) = %q, expected %q", test.name, test.prefix, result, test.expected)
		}
	}
}

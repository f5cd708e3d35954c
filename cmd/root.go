/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/allbin/go-serial-probe"
	"github.com/allbin/go-serial-probe/internal/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces every environment override, e.g. SERIALPROBE_PORT.
const envPrefix = "SERIALPROBE"

// usageError marks a problem with how the command was invoked. It is
// reported together with the usage text and does not fail the process.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// probeOptions is the validated invocation of the root command.
type probeOptions struct {
	path    string
	payload []byte
	timeout time.Duration
	debug   bool
	baud    int
	flush   bool
}

// newRootCmd builds the command tree. Settings are read through v so that
// flags, SERIALPROBE_* variables, .env and the config file all apply.
func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "serialprobe -p <port> -w <hex> -t <ms>",
		Short: "Send a hex payload to a serial port and print the response",
		Long: `Send a hex payload to a serial port and print the response.

The port is put into raw 8N1 mode, the payload is written once and the
response is collected until the line stays silent for the whole timeout.
The response is printed as "Response: <HEX>".

Every flag can also be set from the environment (SERIALPROBE_PORT,
SERIALPROBE_WRITE, SERIALPROBE_TIMEOUT, ...), from a .env file in the
working directory, or from a serialprobe.yaml config file.

Example usage:
  serialprobe -p USB0 -w 00ABC8DF -t 500
  serialprobe -p /dev/ttyACM0 -w "01 03 00 00 00 01" --crc modbus -t 200 -d
  serialprobe -p S1 -w 0D -t 100 --baud 9600 --flush`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unexpected argument %q", args[0])
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := probeOptionsFrom(v)
			if err != nil {
				return err
			}
			return runProbe(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./serialprobe.yaml or $HOME/.config/serialprobe.yaml)")

	flags := rootCmd.Flags()
	flags.StringP("port", "p", "", "Port name, e.g. USB0 for /dev/ttyUSB0, or an absolute device path")
	flags.StringP("write", "w", "", "Payload to send as hex, e.g. 00ABC8DF")
	flags.IntP("timeout", "t", 0, "Quiescence timeout in milliseconds")
	flags.BoolP("debug", "d", false, "Print timing and diagnostic lines")
	flags.Int("baud", 0, "Baud rate (0 keeps the current device speed)")
	flags.String("port-prefix", serial.DefaultPortPrefix, "Prefix prepended to port names that are not absolute paths")
	flags.String("crc", "", "Append a CRC-16 trailer: "+strings.Join(serial.ChecksumNames(), ", "))
	flags.Bool("flush", false, "Discard pending input before writing")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(newListCmd(), newInfoCmd(v))

	return rootCmd
}

// loadConfig reads .env and the config file. Neither has to exist unless a
// config file was named explicitly.
func loadConfig(v *viper.Viper, cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	v.SetConfigName("serialprobe")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// probeOptionsFrom validates the settings. Every failure is a usage error.
func probeOptionsFrom(v *viper.Viper) (probeOptions, error) {
	var opts probeOptions

	for _, key := range []string{"port", "write", "timeout"} {
		if !v.IsSet(key) {
			return opts, usagef("required flag %q not set", key)
		}
	}

	port := strings.TrimSpace(v.GetString("port"))
	if port == "" {
		return opts, usagef("port name is empty")
	}
	opts.path = serial.ResolvePortPath(port, v.GetString("port-prefix"))

	payload, err := serial.DecodeHex(v.GetString("write"))
	if err != nil {
		return opts, &usageError{err: err}
	}
	if algo := v.GetString("crc"); algo != "" {
		if payload, err = serial.AppendCRC(payload, algo); err != nil {
			return opts, &usageError{err: err}
		}
	}
	opts.payload = payload

	ms, err := strconv.Atoi(strings.TrimSpace(v.GetString("timeout")))
	if err != nil {
		return opts, usagef("invalid timeout %q: must be whole milliseconds", v.GetString("timeout"))
	}
	if ms < 0 {
		return opts, usagef("invalid timeout %d: must not be negative", ms)
	}
	opts.timeout = time.Duration(ms) * time.Millisecond

	opts.baud = v.GetInt("baud")
	cfg := serial.DefaultConfig()
	if err := serial.WithBaudRate(opts.baud)(&cfg); err != nil {
		return opts, usagef("%w: %d", err, opts.baud)
	}

	opts.debug = v.GetBool("debug")
	opts.flush = v.GetBool("flush")

	return opts, nil
}

// runProbe performs one exchange and prints the response line. The port is
// closed on every path.
func runProbe(ctx context.Context, out io.Writer, opts probeOptions) error {
	var logger serial.Logger
	var frames *ui.FrameFormatter
	if opts.debug {
		logger = newDebugLogger(out)
		frames = ui.NewFrameFormatter(true, true)
		serial.Mark(logger, "Start")
		logger.Printf("Opening %s", opts.path)
	}

	port, err := serial.Open(opts.path, serial.WithBaudRate(opts.baud))
	if err != nil {
		return err
	}
	defer port.Close()

	if opts.flush {
		if err := port.FlushInput(); err != nil {
			return fmt.Errorf("%w: flush input: %w", serial.ErrConfigure, err)
		}
	}

	if frames != nil {
		logger.Printf("%s", frames.Format(ui.TX, time.Now(), opts.payload))
	}

	res, err := serial.Exchange(ctx, port, opts.payload, serial.CollectConfig{
		Quiescence: opts.timeout,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if frames != nil {
		logger.Printf("%s", frames.Format(ui.RX, time.Now(), res.Response))
	}

	fmt.Fprintf(out, "Response: %s\n", serial.EncodeHex(res.Response))
	return nil
}

// styledWriter renders every line written through it with style.
type styledWriter struct {
	out   io.Writer
	style lipgloss.Style
}

func (w styledWriter) Write(p []byte) (int, error) {
	line := strings.TrimSuffix(string(p), "\n")
	if _, err := fmt.Fprintln(w.out, w.style.Render(line)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func newDebugLogger(out io.Writer) *log.Logger {
	return log.New(styledWriter{out: out, style: ui.DebugStyle}, "", 0)
}

// execute runs cmd with args and maps the outcome to an exit code. Usage
// errors print the message and usage on stdout and exit 0; anything else is
// reported on stderr and exits 1.
func execute(ctx context.Context, rootCmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	// cobra falls back to os.Args on nil
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(stdout, "Error: %v\n", uerr)
		fmt.Fprint(stdout, cmd.UsageString())
		return 0
	}

	fmt.Fprintln(stderr, ui.ErrorStyle.Render("Error: "+err.Error()))
	return 1
}

// Execute runs the CLI against the process arguments and returns the exit
// code. SIGINT and SIGTERM cancel an exchange in progress.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, newRootCmd(viper.New()), os.Args[1:], os.Stdout, os.Stderr)
}

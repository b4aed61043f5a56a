package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/1broseidon/deskcore/internal/config"
	"github.com/1broseidon/deskcore/internal/ipc"
	"github.com/1broseidon/deskcore/internal/platform"
	"github.com/1broseidon/deskcore/internal/runtimepath"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDesktop(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "inject":
		os.Exit(runInject(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskcore <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the desktop (foreground)")
	fmt.Fprintln(w, "  status              Show the running desktop's state")
	fmt.Fprintln(w, "  inject              Queue an input event on the running desktop")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskcore <command> --help' for command-specific options.")
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/deskcore/config.yaml)")
	host := fs.String("host", "", "Override host kind: x11, tui or headless")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcore run [--path PATH] [--host KIND]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *host != "" {
		cfg.Host.Kind = *host
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	display, err := openHost(cfg, logger)
	if err != nil {
		log.Printf("Failed to open %s host: %v", cfg.Host.Kind, err)
		return 1
	}

	s, err := newSession(cfg, platform.Kind(cfg.Host.Kind), display, logger)
	if err != nil {
		display.Close()
		log.Printf("Failed to build desktop: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.run(ctx); err != nil {
		log.Printf("Desktop stopped: %v", err)
		return 1
	}
	log.Println("Desktop stopped")
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// newLogger builds the slog logger for a session. The terminal host owns
// stderr while it runs, so its logs go to a file in the runtime directory.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if platform.Kind(cfg.Host.Kind) != platform.KindTUI || !term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}, nil
	}

	dir, err := runtimepath.Dir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "deskcore.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return slog.New(slog.NewTextHandler(f, opts)), func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcore status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show desktop status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "host:             %s\n", status.Host)
	fmt.Fprintf(w, "uptime_seconds:   %d\n", status.UptimeSeconds)
	fmt.Fprintf(w, "status:           %q\n", status.Status)
	fmt.Fprintf(w, "pointer:          %d,%d\n", status.PointerX, status.PointerY)
	fmt.Fprintf(w, "last_tick_ms:     %d\n", status.LastTick)
	fmt.Fprintf(w, "queue:            %d/%d (pushed %d, squashed %d, dropped %d)\n",
		status.Queued, status.QueueCapacity, status.Pushed, status.Squashed, status.Dropped)
	fmt.Fprintf(w, "pending_timeouts: %d\n", status.PendingTimeouts)
	fmt.Fprintf(w, "dispatched:       %d\n", status.Dispatched)
	if status.Panics > 0 {
		fmt.Fprintf(w, "panics:           %d\n", status.Panics)
	}
	fmt.Fprintf(w, "windows:          %d\n", len(status.Windows))
	for _, win := range status.Windows {
		marker := " "
		if win.Active {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %-10s %dx%d+%d+%d\n", marker, win.Title, win.Width, win.Height, win.X, win.Y)
	}
}

func runInject(args []string) int {
	fs := flag.NewFlagSet("inject", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	kind := fs.String("kind", "", "Event kind (pointer_down, pointer_move, pointer_up, pointer_alt, key_down, key_up, timer_tick)")
	x := fs.Int("x", 0, "Pointer x in screen pixels")
	y := fs.Int("y", 0, "Pointer y in screen pixels")
	code := fs.Uint("code", 0, "Key scan code (set 1)")
	char := fs.String("char", "", "Key character")
	millis := fs.Uint("millis", 0, "Timer counter in milliseconds")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcore inject --kind KIND [--x X --y Y] [--code N --char C] [--millis MS]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *kind == "" || fs.NArg() != 0 {
		fs.Usage()
		return 2
	}
	if *code > 0xff {
		fmt.Fprintln(os.Stderr, "code must be between 0 and 255")
		return 2
	}

	payload := ipc.InjectPayload{
		Kind:   *kind,
		X:      *x,
		Y:      *y,
		Code:   uint8(*code),
		Char:   *char,
		Millis: uint32(*millis),
	}
	if _, err := payload.Event(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := ipc.NewClient().InjectEvent(payload); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  deskcore config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  deskcore config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskcore/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskcore/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			if cfg, err = loadConfig(*path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matgat/prctime/pkg/lib/process"
	"github.com/matgat/prctime/pkg/lib/stopwatch"
)

// exitCodeError is returned for usage and runtime errors.
const exitCodeError = 2

const longHelp = `Runs an executable, waits for it to finish and prints the elapsed
wall-clock time, the kernel and user CPU time and the CPU cycle count.`

type options struct {
	timeout   time.Duration
	verbose   bool
	logFormat string
	cgroup    bool
}

// NewRootCmd builds the prctime command. The child's exit code is stored in
// exitCode once the command has run.
func NewRootCmd(exitCode *int) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "prctime [flags] <executable> [args...]",
		Short:         "Measure the time taken by a process",
		Long:          longHelp,
		Example:       "  prctime prg arg1 arg2\n  prctime --timeout 10s -- sh -c 'sleep 1'",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return &UsageError{Msg: "Executable not provided"}
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.timeout < 0 {
				return &UsageError{Msg: fmt.Sprintf("invalid timeout %s", opts.timeout)}
			}
			if opts.logFormat != logFormatConsole && opts.logFormat != logFormatJSON {
				return &UsageError{Msg: fmt.Sprintf("invalid log format %q", opts.logFormat)}
			}
			process.SetLogger(newLogger(cmd.ErrOrStderr(), opts.verbose, opts.logFormat))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := measure(cmd, opts, args[0], args[1:])
			if err != nil {
				return err
			}
			*exitCode = code
			return nil
		},
	}

	flags := root.Flags()
	// Everything after the executable belongs to the child.
	flags.SetInterspersed(false)
	flags.DurationVarP(&opts.timeout, "timeout", "t", process.DefaultTimeout, "kill the process after this long")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log process lifecycle to stderr")
	flags.StringVar(&opts.logFormat, "log-format", logFormatConsole, "log format: console or json")
	flags.BoolVar(&opts.cgroup, "cgroup", false, "run the process in its own cgroup so a timeout kills its whole tree (Linux, root)")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})

	return root
}

// measure runs the executable and prints the report.
func measure(cmd *cobra.Command, opts *options, exe string, exeArgs []string) (int, error) {
	prc := process.New(exe,
		process.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
		process.WithTimeout(opts.timeout),
		process.WithCgroup(opts.cgroup),
	)
	defer func() {
		if err := prc.Close(); err != nil {
			logger.Warn().Err(err).Msg("releasing process resources failed")
		}
	}()

	sw := stopwatch.New()

	if err := prc.Launch(exeArgs...); err != nil {
		return 0, err
	}

	sw.Start()

	ret, err := prc.Wait(0)
	if err != nil {
		return 0, err
	}

	actual := sw.ElapsedSeconds()
	stats, err := prc.Stats()
	if err != nil {
		return 0, err
	}

	if err := printReport(cmd.OutOrStdout(), actual, stats); err != nil {
		return 0, err
	}
	return ret, nil
}

// run executes prctime with args and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	exitCode := 0
	root := NewRootCmd(&exitCode)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "!! %s\n", usageErr.Msg)
			fmt.Fprintf(stderr, "\n%s\n", root.UsageString())
		} else {
			fmt.Fprintf(stderr, "!! Error: %s\n", err)
		}
		return exitCodeError
	}
	return exitCode
}

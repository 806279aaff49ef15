package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/elijahnyp/device_controller/state"
	. "github.com/elijahnyp/device_controller/util"
)

const projectName = "device_controller"

const (
	exitOK = iota
	exitDenied
	exitUsage
)

var errUnknownCommand = errors.New("unknown command")

var logOutput io.Writer = os.Stderr

func init() {
	RegisterNewConfigListener(reloadLogging)
	RegisterNewConfigListener(rebuildPolicy)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run parses flags, loads configuration and applies the positional commands
// to a single device. It returns the process exit status.
func run(args []string, stdout io.Writer) int {
	var keepGoing, printMetrics bool

	fs := pflag.NewFlagSet(projectName, pflag.ContinueOnError)
	fs.StringP("level", "l", "info", "Set log level (trace|debug|info|warn|error)")
	fs.StringP("policy", "p", PolicyAlways, "Failing policy (always|never|random|sequence)")
	fs.Int64("seed", 1, "Seed of the random policy")
	fs.Float64("failure-probability", DefaultFailureProbability, "Failure probability of the random policy")
	fs.BoolSlice("sequence", nil, "Scripted results of the sequence policy")
	fs.BoolVar(&keepGoing, "keep-going", false, "Continue after a denied power on")
	fs.BoolVar(&printMetrics, "metrics", false, "Write metrics to stdout when done")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [on|off|reset|status]...\n", projectName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	LogInitTo(logOutput, "info")
	SetupConfig()
	for key, flag := range map[string]string{
		"log_level":                  "level",
		"policy.kind":                "policy",
		"policy.seed":                "seed",
		"policy.failure_probability": "failure-probability",
		"policy.sequence":            "sequence",
	} {
		if err := Config.BindPFlag(key, fs.Lookup(flag)); err != nil {
			Logger.Error().Msgf("unable to bind flag %s: %v", flag, err)
			return exitUsage
		}
	}
	OnNewConfig()

	if policyErr != nil {
		Logger.Error().Err(policyErr).Msg("invalid policy configuration")
		return exitUsage
	}

	device := state.NewStandardDevice(policy).WithLogger(ComponentLogger("device"))
	commands := fs.Args()
	if len(commands) == 0 {
		commands = []string{"status"}
	}
	err := runCommands(device, commands, stdout, keepGoing)

	if printMetrics {
		if merr := WriteMetrics(stdout); merr != nil {
			Logger.Error().Err(merr).Msg("unable to write metrics")
		}
	}

	switch {
	case err == nil:
		return exitOK
	case state.IsIllegalState(err):
		return exitDenied
	default:
		Logger.Error().Err(err).Msg("aborted")
		return exitUsage
	}
}

func reloadLogging() {
	LogInitTo(logOutput, Config.GetString("log_level"))
}

// runCommands applies commands in order. A denied power on stops the run
// unless keepGoing is set, in which case the first denial is returned at the
// end.
func runCommands(device state.Device, commands []string, out io.Writer, keepGoing bool) error {
	log := ComponentLogger("cli")
	var firstDenial error
	for i, cmd := range commands {
		var err error
		switch strings.ToLower(cmd) {
		case "on":
			err = device.On()
		case "off":
			device.Off()
		case "reset":
			err = device.Reset()
		case "status":
			printStatus(out, device)
		default:
			return errors.Wrapf(errUnknownCommand, "'%s' at position %d", cmd, i)
		}
		if err != nil {
			log.Warn().Err(err).Str("command", cmd).Msg("command failed")
			if !keepGoing {
				return err
			}
			if firstDenial == nil {
				firstDenial = err
			}
			continue
		}
		log.Info().Str("command", cmd).Bool("on", device.IsOn()).Msg("command applied")
	}
	return firstDenial
}

func printStatus(out io.Writer, device state.Device) {
	if s, ok := device.(fmt.Stringer); ok {
		fmt.Fprintln(out, s.String())
		return
	}
	fmt.Fprintf(out, "on=%t\n", device.IsOn())
}

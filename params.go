package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jsgarvin/arid/framework/aridtest"
)

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type commandParams struct {
	targetURL      string
	routesFile     string
	scenarioPaths  stringList
	filters        aridtest.RegexFilters
	skipFile       string
	recordFailures string
	timeout        time.Duration
	selfTest       bool
	debug          bool
	debugAll       bool
	jUnitFile      string
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.targetURL, "url", "", "base URL of the application under test")
	fs.StringVar(&c.routesFile, "routes", "", "YAML or JSON file mapping route names to path templates")
	fs.Var(&c.scenarioPaths, "scenarios", "scenario file or directory (may be repeated)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.skipFile, "skip-file", "", "file with test IDs to skip, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the IDs of failed tests to this file")
	fs.DurationVar(&c.timeout, "timeout", defaultStatusTimeout, "how long to wait for the application to respond")
	fs.BoolVar(&c.selfTest, "selftest", false, "run the bundled scenarios against a built-in application")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.selfTest {
		if c.targetURL != "" || c.routesFile != "" {
			fmt.Fprintln(os.Stderr, "-selftest cannot be combined with -url or -routes")
			fs.Usage()
			return false
		}
		return true
	}
	if c.targetURL == "" || c.routesFile == "" || len(c.scenarioPaths) == 0 {
		fmt.Fprintln(os.Stderr, "-url, -routes and -scenarios are required")
		fs.Usage()
		return false
	}
	return true
}

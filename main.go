package main

import (
	"bufio"
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jsgarvin/arid/framework"
	"github.com/jsgarvin/arid/framework/aridtest"
	"github.com/jsgarvin/arid/framework/harness"
	"github.com/jsgarvin/arid/mockapp"
	"github.com/jsgarvin/arid/routes"
	"github.com/jsgarvin/arid/scenario"
)

const version = "0.3.0"

const defaultStatusTimeout = time.Second * 10

//go:embed selftest
var selfTestFiles embed.FS

// selfTestUsers are the accounts of the built-in application; the bundled scenarios sign in
// with them.
var selfTestUsers = map[string]string{"alice": "secret"} //nolint:gochecknoglobals

type testLoggerWithEnd interface {
	aridtest.TestLogger
	EndLog(aridtest.Results) error
}

func main() {
	fmt.Printf("arid v%s\n", version)

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !results.OK() {
		os.Exit(1)
	}
}

func run(params commandParams) (*aridtest.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = framework.WriterLogger(os.Stdout)
	}

	target, files, stop, err := prepareTarget(params, mainDebugLogger)
	if err != nil {
		return nil, err
	}
	defer stop()

	if _, err := harness.WaitForService(target.BaseURL, params.timeout, os.Stdout); err != nil {
		return nil, err
	}

	var testLogger testLoggerWithEnd
	consoleLogger := aridtest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	if params.jUnitFile == "" {
		testLogger = consoleLogger
	} else {
		testLogger = &aridtest.MultiTestLogger{Loggers: []aridtest.TestLogger{
			consoleLogger,
			aridtest.NewJUnitTestLogger(params.jUnitFile, target.BaseURL, params.filters),
		}}
	}

	results := scenario.RunSuite(target, files, params.filters, testLogger)

	fmt.Println()
	logErr := testLogger.EndLog(results)
	aridtest.PrintResults(results)

	if logErr != nil {
		return nil, fmt.Errorf("error writing log: %v", logErr)
	}

	if params.recordFailures != "" {
		f, err := os.Create(params.recordFailures)
		if err != nil {
			return nil, fmt.Errorf("cannot create suppression file: %v", err)
		}
		for _, test := range results.Failures {
			fmt.Fprintln(f, test.TestID)
		}
		_ = f.Close()
	}

	return &results, nil
}

// prepareTarget loads the route table and scenarios, or, for a self-test, starts the built-in
// application and takes its routes and the bundled scenarios. The returned function stops
// anything that was started.
func prepareTarget(params commandParams, debugLogger framework.Logger) (scenario.Target, []scenario.File, func(), error) {
	var files []scenario.File
	if len(params.scenarioPaths) > 0 {
		loaded, err := scenario.LoadFiles(params.scenarioPaths...)
		if err != nil {
			return scenario.Target{}, nil, nil, err
		}
		files = loaded
	}

	if !params.selfTest {
		table, err := routes.LoadTable(params.routesFile)
		if err != nil {
			return scenario.Target{}, nil, nil, err
		}
		paths, err := table.Registry()
		if err != nil {
			return scenario.Target{}, nil, nil, err
		}
		return scenario.Target{BaseURL: params.targetURL, Paths: paths}, files, func() {}, nil
	}

	bundled, err := scenario.LoadFilesFS(selfTestFiles, "selftest")
	if err != nil {
		return scenario.Target{}, nil, nil, err
	}
	app := mockapp.New(mockapp.Config{Users: selfTestUsers, Logger: framework.LoggerWithPrefix(debugLogger, "[mockapp] ")})
	paths, err := routes.FromRouter(app.Router())
	if err != nil {
		return scenario.Target{}, nil, nil, err
	}
	server, err := harness.StartLocalServer(app, debugLogger)
	if err != nil {
		return scenario.Target{}, nil, nil, err
	}
	stop := func() {
		if err := server.Close(); err != nil {
			debugLogger.Printf("Error stopping local server: %s", err)
		}
	}
	return scenario.Target{BaseURL: server.URL, Paths: paths}, append(bundled, files...), stop, nil
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %v", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		params.filters.MustNotMatch.AddLiteral(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %v", err)
	}
	return nil
}

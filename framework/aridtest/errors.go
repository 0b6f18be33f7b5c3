package aridtest

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

const maxStackDepth = 64

// ErrorWithStacktrace is a failure reported through T.Errorf, with the frames that led to it.
// Frames of the runner itself, and of functions marked with T.Helper, are not included, so for
// a failed scenario step the first frame is normally the step runner.
type ErrorWithStacktrace struct {
	Message    string
	Stacktrace []StacktraceInfo
}

// StacktraceInfo is one frame of an ErrorWithStacktrace.
type StacktraceInfo struct {
	FileName string
	Package  string
	Function string
	Line     int
}

func (e ErrorWithStacktrace) Error() string { return e.Message }

// String shows the package relative to the module, as in "resttest.(*Session).Build
// (dispatch.go:80)".
func (s StacktraceInfo) String() string {
	packageName := strings.TrimPrefix(s.Package, rootPackageName()+"/")
	return fmt.Sprintf("%s.%s (%s:%d)", packageName, s.Function, s.FileName, s.Line)
}

// Assertions made with testify inside a test put their own trace block before the message.
var testifyTracePrefix = regexp.MustCompile(`^(?s:\s*Error Trace:.*\sError:\s*)`)

func transformError(err error, stacktrace []StacktraceInfo) error {
	message := err.Error()
	if strings.Contains(message, "Error Trace:") {
		message = strings.TrimSpace(testifyTracePrefix.ReplaceAllLiteralString(message, ""))
	}
	if len(stacktrace) == 0 {
		return errors.New(message)
	}
	return ErrorWithStacktrace{Message: message, Stacktrace: stacktrace}
}

// runnerPackage is the import path of this package, taken from the frame of the function that
// computes it.
var runnerPackage = sync.OnceValue(func() string { //nolint:gochecknoglobals
	pc, _, _, _ := runtime.Caller(0)
	packageName, _ := splitFunctionName(runtime.FuncForPC(pc).Name())
	return packageName
})

func currentPackageName() string {
	return runnerPackage()
}

// rootPackageName is the module path, e.g. "github.com/jsgarvin/arid".
func rootPackageName() string {
	parts := strings.SplitN(runnerPackage(), "/", 4)
	return strings.Join(parts[:min(len(parts), 3)], "/")
}

// getStacktrace returns the frames above its caller, up to the top-level Run that started the
// test. Runner frames are left out unless includeRunnerFrames is set.
func getStacktrace(includeRunnerFrames bool, helperFns []string) []StacktraceInfo {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	runner := runnerPackage()

	var ret []StacktraceInfo
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			break
		}
		packageName, functionName := splitFunctionName(frame.Function)
		if packageName == runner && functionName == "Run" {
			break
		}
		inRunner := packageName == runner
		if (includeRunnerFrames || !inRunner) && !slices.Contains(helperFns, frame.Function) {
			ret = append(ret, StacktraceInfo{
				FileName: filepath.Base(frame.File),
				Package:  packageName,
				Function: functionName,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}
	return ret
}

// splitFunctionName splits "a/b/pkg.(*T).Method" into "a/b/pkg" and "(*T).Method".
func splitFunctionName(fullName string) (string, string) {
	lastSlash := strings.LastIndex(fullName, "/")
	dot := strings.Index(fullName[lastSlash+1:], ".")
	if dot < 0 {
		return fullName, ""
	}
	packageName := fullName[:lastSlash+1+dot]
	return packageName, fullName[len(packageName)+1:]
}

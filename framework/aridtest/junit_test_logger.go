package aridtest

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jsgarvin/arid/framework"
	o "github.com/jsgarvin/arid/framework/opt"
)

// JUnitTestLogger collects results and writes them as JUnit XML when EndLog is called.
//
// Each top-level test, which for arid is a scenario file, becomes a <testsuite>, and each test
// below it a <testcase> named by the rest of its ID. A top-level test only gets a testcase of
// its own if it failed or was skipped. A non-critical failure is reported as skipped, with its
// explanation, so that CI tools do not count it.
type JUnitTestLogger struct {
	filePath   string
	properties []jUnitXMLProperty
	cases      []*jUnitCase // in the order the tests started
	byID       map[string]*jUnitCase
	lock       sync.Mutex
}

type jUnitCase struct {
	id         TestID
	started    time.Time
	duration   time.Duration
	failures   []error
	skipReason o.Maybe[string]
	output     string
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name             `xml:"testsuites"`
	Suites  []*jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Name       string             `xml:"name,attr"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Skipped    int                `xml:"skipped,attr"`
	Time       string             `xml:"time,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`

	duration time.Duration
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Contents string `xml:",chardata"`
}

// NewJUnitTestLogger creates a JUnitTestLogger that will write to filePath. The target URL and
// the filters are recorded as properties of every suite.
func NewJUnitTestLogger(filePath, targetURL string, filters RegexFilters) *JUnitTestLogger {
	return &JUnitTestLogger{
		filePath: filePath,
		properties: []jUnitXMLProperty{
			{Name: "arid.target.url", Value: targetURL},
			{Name: "arid.filter.run", Value: filters.MustMatch.String()},
			{Name: "arid.filter.skip", Value: filters.MustNotMatch.String()},
		},
		byID: make(map[string]*jUnitCase),
	}
}

func (j *JUnitTestLogger) testCase(id TestID) *jUnitCase {
	c, ok := j.byID[id.String()]
	if !ok {
		c = &jUnitCase{id: id, started: time.Now()}
		j.byID[id.String()] = c
		j.cases = append(j.cases, c)
	}
	return c
}

func (j *JUnitTestLogger) TestStarted(id TestID) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.testCase(id)
}

func (j *JUnitTestLogger) TestError(id TestID, err error) {
	j.lock.Lock()
	defer j.lock.Unlock()
	c := j.testCase(id)
	c.failures = append(c.failures, err)
}

func (j *JUnitTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	j.lock.Lock()
	defer j.lock.Unlock()
	c := j.testCase(id)
	c.duration = time.Since(c.started)
	c.output = debugOutput.ToString("")
	if result.NonCritical && len(c.failures) != 0 {
		c.skipReason = o.Some("non-critical: " + result.Explanation)
	}
}

func (j *JUnitTestLogger) TestSkipped(id TestID, reason string) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.testCase(id).skipReason = o.Some(reason)
}

// EndLog writes the XML file.
func (j *JUnitTestLogger) EndLog(Results) error {
	data, err := j.render()
	if err != nil {
		return err
	}
	return os.WriteFile(j.filePath, data, 0644) //nolint:gosec
}

func (j *JUnitTestLogger) render() ([]byte, error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	var doc jUnitXMLDocument
	suites := make(map[string]*jUnitXMLTestSuite)
	for _, c := range j.cases {
		if len(c.id) == 0 {
			continue
		}
		suite, ok := suites[c.id[0]]
		if !ok {
			suite = &jUnitXMLTestSuite{Name: c.id[0], Properties: j.properties}
			suites[c.id[0]] = suite
			doc.Suites = append(doc.Suites, suite)
		}
		if len(c.id) == 1 {
			suite.duration = c.duration
			if len(c.failures) == 0 && !c.skipReason.IsDefined() {
				continue
			}
		}
		suite.TestCases = append(suite.TestCases, c.toXML(suite))
	}
	for _, suite := range doc.Suites {
		suite.Tests = len(suite.TestCases)
		suite.Time = jUnitDurationString(suite.duration)
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

func (c *jUnitCase) toXML(suite *jUnitXMLTestSuite) jUnitXMLTestCase {
	name := c.id[0]
	if len(c.id) > 1 {
		name = c.id[1:].String()
	}
	tc := jUnitXMLTestCase{Classname: suite.Name, Name: name, Time: jUnitDurationString(c.duration)}
	switch {
	case c.skipReason.IsDefined():
		suite.Skipped++
		tc.SkipMessage = &jUnitXMLSkipMessage{Message: c.skipReason.Value()}
	case len(c.failures) != 0:
		suite.Failures++
		tc.Failure = &jUnitXMLFailure{Message: failureMessages(c.failures), Contents: c.output}
	}
	return tc
}

func failureMessages(failures []error) string {
	messages := make([]string, 0, len(failures))
	for _, e := range failures {
		message := e.Error()
		if es, ok := e.(ErrorWithStacktrace); ok {
			message += "\n  Stacktrace:"
			for _, s := range es.Stacktrace {
				message += "\n    " + s.String()
			}
		}
		messages = append(messages, message)
	}
	return strings.Join(messages, "\n")
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

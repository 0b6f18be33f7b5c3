// Package harness contains the pieces of a test run that deal with the service under test as a
// whole rather than with individual requests: waiting for it to come up, and serving an
// in-process application for self-tests.
package harness

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jsgarvin/arid/framework"
)

const probeInterval = time.Millisecond * 100

// ServiceStatus is what the readiness probe learned about the service under test.
type ServiceStatus struct {
	URL        string
	StatusCode int
	Server     string
}

// WaitForService polls the service's base URL until it answers an HTTP request with a status
// below 500, or the timeout elapses. Redirects are not followed, since the root of a web
// application commonly redirects to a login page.
func WaitForService(url string, timeout time.Duration, output io.Writer) (ServiceStatus, error) {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	_, _ = fmt.Fprintf(output, "Connecting to service at %s", url)

	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		_, _ = fmt.Fprint(output, ".")
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 500 {
				_, _ = fmt.Fprintf(output, "\nService responded with status %d\n", resp.StatusCode)
				return ServiceStatus{URL: url, StatusCode: resp.StatusCode, Server: resp.Header.Get("Server")}, nil
			}
			lastErr = fmt.Errorf("service returned status code %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		if !time.Now().Before(deadline) {
			_, _ = fmt.Fprintln(output)
			return ServiceStatus{}, fmt.Errorf("timed out, result of last query was: %w", lastErr)
		}
		time.Sleep(probeInterval)
	}
}

// LocalServer is an HTTP server bound to a loopback port chosen by the OS.
type LocalServer struct {
	URL    string
	server *http.Server
	done   chan struct{}
}

// StartLocalServer serves handler on 127.0.0.1 and returns once the listener is accepting
// connections.
func StartLocalServer(handler http.Handler, logger framework.Logger) (*LocalServer, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("cannot open local listener: %w", err)
	}
	s := &LocalServer{
		URL: "http://" + listener.Addr().String(),
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second, // arbitrary but non-infinite timeout to avoid Slowloris Attack
		},
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Local server at %s stopped: %s", s.URL, err)
		}
	}()
	logger.Printf("Serving local application at %s", s.URL)
	return s, nil
}

// Close stops the server and waits for its goroutine to exit.
func (s *LocalServer) Close() error {
	err := s.server.Close()
	<-s.done
	return err
}

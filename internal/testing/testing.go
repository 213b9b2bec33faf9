// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/embracefm/embrace/internal/audio"
	"github.com/embracefm/embrace/internal/shared"
)

// SetupDB creates an in-memory SQLite database with migrations applied
func SetupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MockBioDrafter is a test double for [services.BioDrafter]
type MockBioDrafter struct {
	Bio   string
	Err   error
	Delay time.Duration
	Calls int
}

func (m *MockBioDrafter) Draft(ctx context.Context, artistName, genreLabel string) (string, error) {
	m.Calls++
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Bio, nil
}

func (m *MockBioDrafter) Name() string { return "mock" }

// ScriptDriver is a test double for [audio.Driver] that records commands and
// lets tests inject events directly.
type ScriptDriver struct {
	Sources []string
	Plays   int
	Pauses  int
	Seeks   []time.Duration
	events  chan audio.Event
}

func NewScriptDriver() *ScriptDriver {
	return &ScriptDriver{events: make(chan audio.Event, 32)}
}

func (d *ScriptDriver) SetSource(uri string)       { d.Sources = append(d.Sources, uri) }
func (d *ScriptDriver) Play()                      { d.Plays++ }
func (d *ScriptDriver) Pause()                     { d.Pauses++ }
func (d *ScriptDriver) Seek(pos time.Duration)     { d.Seeks = append(d.Seeks, pos) }
func (d *ScriptDriver) Events() <-chan audio.Event { return d.events }
func (d *ScriptDriver) Close()                     { close(d.events) }
func (d *ScriptDriver) Emit(ev audio.Event)        { d.events <- ev }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

package usecase

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/MoreDelay/cbz-in/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// fakeReader serves pre-built archives from memory.
type fakeReader struct {
	archives map[string]domain.Archive
	readErr  map[string]error
}

func (f *fakeReader) Read(path string) (domain.Archive, error) {
	if err := f.readErr[path]; err != nil {
		return domain.Archive{}, err
	}
	arc, ok := f.archives[path]
	if !ok {
		return domain.Archive{}, &domain.OpError{
			Op:   "fake.read",
			Kind: domain.KindArchiveOpen,
			Path: path,
			Err:  fs.ErrNotExist,
		}
	}
	return arc, nil
}

func (f *fakeReader) List(path string) ([]string, error) {
	if err := f.readErr[path]; err != nil {
		return nil, err
	}
	arc, ok := f.archives[path]
	if !ok {
		return nil, &domain.OpError{
			Op:   "fake.list",
			Kind: domain.KindArchiveOpen,
			Path: path,
			Err:  fs.ErrNotExist,
		}
	}
	names := make([]string, len(arc.Entries))
	for i, e := range arc.Entries {
		names[i] = e.Path
	}
	return names, nil
}

// fakeWriter records every write instead of touching disk.
type fakeWriter struct {
	mu      sync.Mutex
	written map[string][]domain.Entry
	err     error
}

func (f *fakeWriter) Write(path string, entries []domain.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.written == nil {
		f.written = make(map[string][]domain.Entry)
	}
	f.written[path] = entries
	return nil
}

// fakeConverter marks converted bytes instead of shelling out. Entries whose
// name is listed in failNames fail their conversion.
type fakeConverter struct {
	missing   []string
	failNames map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeConverter) Convert(_ context.Context, data []byte, name string, _ domain.Plan) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.failNames[name] {
		return nil, &domain.OpError{
			Op:   "fake.convert",
			Kind: domain.KindConversionFailed,
			Path: name,
			Err:  fmt.Errorf("boom"),
		}
	}
	return append([]byte("converted:"), data...), nil
}

func (f *fakeConverter) MissingTools([]domain.Plan) []string {
	return f.missing
}

// recordingSink keeps every printed line for assertions.
type recordingSink struct {
	mu    sync.Mutex
	lines []string
	jobs  int
}

func (s *recordingSink) BeginJobs(total int) { s.jobs = total }
func (s *recordingSink) BeginImages(int)     {}
func (s *recordingSink) ImageDone()          {}
func (s *recordingSink) JobDone()            {}

func (s *recordingSink) Println(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, msg)
}

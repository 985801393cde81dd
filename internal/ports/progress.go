package ports

// ProgressSink receives run progress for display. Implementations must be
// safe for use from multiple goroutines; conversions report concurrently.
type ProgressSink interface {
	// BeginJobs announces how many archives (or directory roots) will run.
	BeginJobs(total int)
	// BeginImages announces how many images the current job converts.
	BeginImages(total int)
	// ImageDone marks one image conversion as finished (success or failure).
	ImageDone()
	// JobDone marks the current job as finished.
	JobDone()
	// Println prints a message above any progress display.
	Println(msg string)
}

// NopSink discards all progress. Useful for tests and quiet runs.
type NopSink struct{}

func (NopSink) BeginJobs(int)   {}
func (NopSink) BeginImages(int) {}
func (NopSink) ImageDone()      {}
func (NopSink) JobDone()        {}
func (NopSink) Println(string)  {}

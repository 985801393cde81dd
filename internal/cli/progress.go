package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/MoreDelay/cbz-in/internal/ports"
)

// newSink picks the progress display for this run. Interactive terminals get
// live progress bars; everything else falls back to plain line output. The
// returned close function must be called before printing the summary.
func newSink(noProgress bool) (ports.ProgressSink, func()) {
	if noProgress || !isatty.IsTerminal(os.Stdout.Fd()) {
		return &plainSink{}, func() {}
	}
	return newTeaSink()
}

// plainSink prints messages line by line without any live display.
type plainSink struct {
	mu sync.Mutex
}

func (s *plainSink) BeginJobs(int)   {}
func (s *plainSink) BeginImages(int) {}
func (s *plainSink) ImageDone()      {}
func (s *plainSink) JobDone()        {}

func (s *plainSink) Println(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Println(msg)
}

type (
	beginJobsMsg   int
	beginImagesMsg int
	imageDoneMsg   struct{}
	jobDoneMsg     struct{}
	lineMsg        string
)

// progressModel renders two bars: one across all jobs, one for the images of
// the job currently running.
type progressModel struct {
	jobs   progress.Model
	images progress.Model

	jobsTotal   int
	jobsDone    int
	imagesTotal int
	imagesDone  int
}

func newProgressModel() progressModel {
	return progressModel{
		jobs:   progress.New(progress.WithDefaultGradient()),
		images: progress.New(progress.WithDefaultGradient()),
	}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 24
		if width > 60 {
			width = 60
		}
		if width < 10 {
			width = 10
		}
		m.jobs.Width = width
		m.images.Width = width
		return m, nil

	case beginJobsMsg:
		m.jobsTotal = int(msg)
		m.jobsDone = 0
		return m, nil

	case beginImagesMsg:
		m.imagesTotal = int(msg)
		m.imagesDone = 0
		return m, nil

	case imageDoneMsg:
		if m.imagesDone < m.imagesTotal {
			m.imagesDone++
		}
		return m, nil

	case jobDoneMsg:
		if m.jobsDone < m.jobsTotal {
			m.jobsDone++
		}
		return m, nil

	case lineMsg:
		return m, tea.Println(string(msg))

	case tea.KeyMsg:
		// input is detached; quit comes from the sink's close function
		return m, nil
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.jobsTotal == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "total  %s %d/%d\n", m.jobs.ViewAs(ratio(m.jobsDone, m.jobsTotal)), m.jobsDone, m.jobsTotal)
	if m.imagesTotal > 0 {
		fmt.Fprintf(&b, "images %s %d/%d\n", m.images.ViewAs(ratio(m.imagesDone, m.imagesTotal)), m.imagesDone, m.imagesTotal)
	}
	return b.String()
}

func ratio(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// teaSink forwards progress events into the running bubbletea program. Safe
// to call from multiple goroutines; Program.Send serializes delivery.
type teaSink struct {
	prog *tea.Program
}

func newTeaSink() (ports.ProgressSink, func()) {
	p := tea.NewProgram(newProgressModel(), tea.WithInput(nil), tea.WithoutSignalHandler())

	done := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(done)
	}()

	closeFn := func() {
		p.Quit()
		<-done
	}
	return &teaSink{prog: p}, closeFn
}

func (s *teaSink) BeginJobs(total int)   { s.prog.Send(beginJobsMsg(total)) }
func (s *teaSink) BeginImages(total int) { s.prog.Send(beginImagesMsg(total)) }
func (s *teaSink) ImageDone()            { s.prog.Send(imageDoneMsg{}) }
func (s *teaSink) JobDone()              { s.prog.Send(jobDoneMsg{}) }
func (s *teaSink) Println(msg string)    { s.prog.Send(lineMsg(msg)) }

package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ky489401/anki-canonical/pkg/clock"
)

// ProgressLog rewrites a single terminal line to report the progress of a batch.
type ProgressLog struct {
	output        io.Writer
	showBar       bool
	showETA       bool
	barWidth      int
	maxSteps      int
	maxCharacters int
	start         time.Time
}

func NewProgressLog(maxSteps int, options ...func(*ProgressLog)) *ProgressLog {
	result := &ProgressLog{
		output:        os.Stdout,
		showBar:       true,
		barWidth:      20,
		maxSteps:      maxSteps,
		maxCharacters: 100,
		start:         clock.Now(),
	}
	for _, option := range options {
		option(result)
	}
	return result
}

func ToWriter(w io.Writer) func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.output = w
	}
}

func HideBar() func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.showBar = false
	}
}

// ShowETA appends the estimated remaining time.
func ShowETA() func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.showETA = true
	}
}

func BarWidth(width int) func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.barWidth = width
	}
}

func LineLength(characters int) func(*ProgressLog) {
	return func(s *ProgressLog) {
		s.maxCharacters = characters
	}
}

func (l *ProgressLog) Log(currentStep int, message string) {
	var sb strings.Builder
	if l.showBar {
		sb.WriteString(ProgressBar(currentStep, l.maxSteps, l.barWidth))
	} else {
		sb.WriteString(fmt.Sprintf("(%d/%d)", currentStep, l.maxSteps))
	}
	sb.WriteRune(' ')
	sb.WriteString(message)
	if l.showETA {
		sb.WriteString(" ETA: ")
		sb.WriteString(EstimateRemaining(currentStep, l.maxSteps, l.start))
	}
	fmt.Fprint(l.output, l.pad(sb.String()), "\r")
}

func (l *ProgressLog) Clear(newMessage string) {
	// Rewrite the last line
	fmt.Fprint(l.output, l.pad(newMessage))

	if newMessage == "" {
		fmt.Fprint(l.output, "\r")
	} else {
		// Move to next line
		fmt.Fprint(l.output, "\n")
	}
}

// pad truncates or fills the line to overwrite the previous one.
func (l *ProgressLog) pad(line string) string {
	n := utf8.RuneCountInString(line)
	if n > l.maxCharacters {
		return string([]rune(line)[:l.maxCharacters])
	}
	return line + strings.Repeat(" ", l.maxCharacters-n)
}

// ProgressBar renders a bar of the given width.
//
//	[█████░░░░░] 50.0% (5/10)
func ProgressBar(current, total, width int) string {
	progress := 0.0
	if total > 0 {
		progress = float64(current) / float64(total)
	}
	filled := min(max(int(float64(width)*progress), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %.1f%% (%d/%d)", bar, progress*100, current, total)
}

// EstimateRemaining extrapolates the time left from the rate observed since start.
func EstimateRemaining(processed, total int, start time.Time) string {
	if processed <= 0 {
		return "Calculating..."
	}
	elapsed := clock.Since(start)
	remaining := time.Duration(float64(elapsed) / float64(processed) * float64(total-processed))

	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	seconds := int(remaining.Seconds()) % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

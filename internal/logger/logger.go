package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Magenta = "\033[35m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
	BrightCyan   = "\033[96m"

	BgBlue = "\033[44m"
)

// ColorLogger provides colored terminal output and doubles as the
// notification sink for fetch fallbacks (Warning / Error)
type ColorLogger struct {
	logger zerolog.Logger
	writer io.Writer
}

// NewColorLogger creates a new ColorLogger writing to stdout
func NewColorLogger(debug bool) *ColorLogger {
	return NewColorLoggerTo(os.Stdout, debug)
}

// NewColorLoggerTo creates a ColorLogger writing both the colored lines and
// the structured log to w
func NewColorLoggerTo(w io.Writer, debug bool) *ColorLogger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    false,
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()

	return &ColorLogger{
		logger: logger,
		writer: w,
	}
}

// Header prints a header with the given text
func (l *ColorLogger) Header(text string, char rune, width int) {
	line := strings.Repeat(string(char), width)
	fmt.Fprintf(l.writer, "\n%s%s%s%s\n", Bold, BrightCyan, line, Reset)
	fmt.Fprintf(l.writer, "%s%s%s%s\n", Bold, BrightCyan, center(text, width), Reset)
	fmt.Fprintf(l.writer, "%s%s%s%s\n\n", Bold, BrightCyan, line, Reset)
}

// Subheader prints a subheader
func (l *ColorLogger) Subheader(text string, char rune, width int) {
	line := strings.Repeat(string(char), width)
	fmt.Fprintf(l.writer, "\n%s%s%s\n", BrightBlue, line, Reset)
	fmt.Fprintf(l.writer, "%s%s%s%s\n", Bold, BrightBlue, text, Reset)
	fmt.Fprintf(l.writer, "%s%s%s\n\n", BrightBlue, line, Reset)
}

// Success prints a success message
func (l *ColorLogger) Success(text string) {
	fmt.Fprintf(l.writer, "%s✅ %s%s\n", BrightGreen, text, Reset)
	l.logger.Info().Msg(text)
}

// Error prints an error message
func (l *ColorLogger) Error(text string) {
	fmt.Fprintf(l.writer, "%s❌ %s%s\n", BrightRed, text, Reset)
	l.logger.Error().Msg(text)
}

// Warning prints a warning message
func (l *ColorLogger) Warning(text string) {
	fmt.Fprintf(l.writer, "%s⚠️  %s%s\n", BrightYellow, text, Reset)
	l.logger.Warn().Msg(text)
}

// Info prints an info message
func (l *ColorLogger) Info(text string) {
	fmt.Fprintf(l.writer, "%sℹ️  %s%s\n", Cyan, text, Reset)
	l.logger.Info().Msg(text)
}

// Report prints a boxed multi-line report, truncated to maxLines
func (l *ColorLogger) Report(title string, content string, maxLines int) {
	fmt.Fprintf(l.writer, "\n%s%s%s %s %s\n", Bold, BgBlue, White, title, Reset)
	fmt.Fprintf(l.writer, "%s%s%s\n", Green, strings.Repeat("─", 80), Reset)

	lines := strings.Split(content, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		fmt.Fprintln(l.writer, strings.Join(lines[:maxLines], "\n"))
		fmt.Fprintf(l.writer, "%s... (%d more lines)%s\n", Yellow, len(lines)-maxLines, Reset)
	} else {
		fmt.Fprintln(l.writer, content)
	}

	fmt.Fprintf(l.writer, "%s%s%s\n\n", Green, strings.Repeat("─", 80), Reset)
}

// Debug prints a debug message (only if debug mode is enabled)
func (l *ColorLogger) Debug(text string) {
	l.logger.Debug().Msg(text)
}

// Helper function to center text
func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// Global logger instance
var Global *ColorLogger

// Init initializes the global logger
func Init(debug bool) {
	Global = NewColorLogger(debug)
}

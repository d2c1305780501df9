package haven

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DebugLogger provides debug logging for engine operations. When enabled,
// it records store-read failures, generative calls and latencies, degraded
// fallback responses, and crisis alerts.
type DebugLogger struct {
	mu      sync.Mutex
	enabled bool
	writer  io.Writer
}

// NewDebugLogger creates a new debug logger.
// If logPath is empty, logs to stderr.
func NewDebugLogger(enabled bool, logPath string) (*DebugLogger, error) {
	var writer io.Writer = os.Stderr

	if enabled && logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		writer = f
	}

	return &DebugLogger{
		enabled: enabled,
		writer:  writer,
	}, nil
}

// Close closes the debug logger if it's writing to a file.
func (l *DebugLogger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if closer, ok := l.writer.(io.Closer); ok && l.writer != os.Stderr {
		return closer.Close()
	}
	return nil
}

// Log writes a debug message if logging is enabled.
func (l *DebugLogger) Log(format string, args ...any) {
	if l == nil || !l.enabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(l.writer, "[%s] [HAVEN DEBUG] %s\n", timestamp, msg)
}

// LogStoreError records a failed history read. The caller degrades to a
// default context; the failure itself is only visible here.
func (l *DebugLogger) LogStoreError(operation string, err error) {
	if l == nil || !l.enabled {
		return
	}
	l.Log("STORE [%s]: %v", operation, err)
}

// LogGenerate records a completed generative call and its latency.
func (l *DebugLogger) LogGenerate(model string, elapsed time.Duration) {
	if l == nil || !l.enabled {
		return
	}
	l.Log("GENERATE [%s]: completed in %v", model, elapsed)
}

// LogDegraded records a fallback response. This is the designed degradation
// path, logged distinctly from normal responses so it stays observable.
func (l *DebugLogger) LogDegraded(responseType ResponseType, err error) {
	if l == nil || !l.enabled {
		return
	}
	l.Log("DEGRADED [%s]: falling back to template: %v", responseType, err)
}

// LogCrisisAlert records a crisis-branch activation and the alert outcome.
func (l *DebugLogger) LogCrisisAlert(delivered bool, err error) {
	if l == nil || !l.enabled {
		return
	}
	if err != nil {
		l.Log("CRISIS: alert delivery failed: %v", err)
		return
	}
	l.Log("CRISIS: branch fired (alert delivered: %v)", delivered)
}

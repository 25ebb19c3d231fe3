// Package logger provides structured JSON logging with optional PII
// redaction. Marketplace logs routinely carry user emails; redaction is on
// by default so a stray field never leaks a full address.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger emits structured JSON log entries, one object per line.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	redactPII bool
}

// New creates a logger writing to out at the given minimum level.
func New(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level, redactPII: true}
}

var std = New(os.Stderr, INFO)

// SetLevel sets the minimum log level for the package-level logger.
func SetLevel(l Level) { std.level = l }

// SetRedactPII enables or disables PII redaction for the package-level logger.
func SetRedactPII(r bool) { std.redactPII = r }

// Debug emits a DEBUG-level structured log entry.
func Debug(msg string, fields ...any) { std.log(DEBUG, msg, fields) }

// Info emits an INFO-level structured log entry.
func Info(msg string, fields ...any) { std.log(INFO, msg, fields) }

// Warn emits a WARN-level structured log entry.
func Warn(msg string, fields ...any) { std.log(WARN, msg, fields) }

// Error emits an ERROR-level structured log entry.
func Error(msg string, fields ...any) { std.log(ERROR, msg, fields) }

// log renders the entry. Fields arrive as alternating key, value pairs; a
// trailing key without a value is dropped.
func (l *Logger) log(level Level, msg string, fields []any) {
	if level < l.level {
		return
	}

	entry := make(map[string]string, len(fields)/2+3)
	entry["time"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level.String()
	entry["msg"] = msg

	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		val := fmt.Sprintf("%v", fields[i+1])
		if l.redactPII {
			val = redactValue(key, val)
		}
		entry[key] = val
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(line)
	io.WriteString(l.out, "\n")
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// redactValue masks emails wherever they appear. Keys that are themselves
// email fields get the whole value masked; other values only have embedded
// addresses replaced.
func redactValue(key, val string) string {
	if strings.Contains(strings.ToLower(key), "email") {
		return RedactEmail(val)
	}
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}

package auth

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger is the minimal logging surface the auth components need: a message
// followed by alternating key-value pairs. The server wires a real
// implementation; components fall back to StdLogger when given nil.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// StdLogger writes leveled lines rendering the key-value pairs as
// key=value. Out defaults to stdout.
type StdLogger struct {
	Prefix string
	Out    io.Writer
}

func (l StdLogger) Debug(msg string, keyvals ...any) {
	l.print("DBG", msg, keyvals)
}

func (l StdLogger) Info(msg string, keyvals ...any) {
	l.print("INF", msg, keyvals)
}

func (l StdLogger) Error(msg string, keyvals ...any) {
	l.print("ERR", msg, keyvals)
}

func (l StdLogger) print(level, msg string, keyvals []any) {
	out := l.Out
	if out == nil {
		out = os.Stdout
	}

	var b strings.Builder
	b.WriteString("[" + level + "] " + l.prefix() + msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	if len(keyvals)%2 == 1 {
		fmt.Fprintf(&b, " %v", keyvals[len(keyvals)-1])
	}
	b.WriteByte('\n')

	fmt.Fprint(out, b.String())
}

func (l StdLogger) prefix() string {
	if l.Prefix == "" {
		return ""
	}
	return l.Prefix + " "
}

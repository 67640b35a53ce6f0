// Package notify delivers transient user-facing messages.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// Terminal prints messages to a writer and mirrors them to the log.
type Terminal struct {
	out io.Writer
	log zerolog.Logger
	mu  sync.Mutex
}

func NewTerminal(out io.Writer, log zerolog.Logger) *Terminal {
	return &Terminal{out: out, log: log}
}

func (t *Terminal) Success(msg string) { t.write(LevelSuccess, "✓", msg) }
func (t *Terminal) Info(msg string)    { t.write(LevelInfo, "•", msg) }
func (t *Terminal) Error(msg string)   { t.write(LevelError, "✗", msg) }

func (t *Terminal) write(level Level, mark, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s %s\n", mark, msg)
	evt := t.log.Debug()
	if level == LevelError {
		evt = t.log.Warn()
	}
	evt.Str("level_hint", string(level)).Msg(msg)
}

// Message is one recorded notification.
type Message struct {
	Level Level
	Text  string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: msg})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Copyright 2020-2021 The OS-NVR Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package log

// API inspired by zerolog https://github.com/rs/zerolog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log, lower is more severe.
type Level uint8

// Levels.
const (
	LevelError   Level = 16
	LevelWarning Level = 24
	LevelInfo    Level = 32
	LevelDebug   Level = 48
)

var levelNames = map[Level]string{
	LevelError:   "error",
	LevelWarning: "warning",
	LevelInfo:    "info",
	LevelDebug:   "debug",
}

func (l Level) String() string {
	return strings.ToUpper(levelNames[l])
}

// ErrUnknownLevel unknown level name.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel returns the level named "error", "warning", "info" or "debug".
func ParseLevel(name string) (Level, error) {
	for level, n := range levelNames {
		if strings.EqualFold(n, name) {
			return level, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// UnixMillisecond .
type UnixMillisecond uint64

// Log is a single log entry.
type Log struct {
	Level Level
	Time  UnixMillisecond
	Msg   string
	Src   string // Package or stage, "seq", "vbb", "app".
	Video string // "<set>/<video>", empty for batch logs.
}

// Event is a log under construction.
type Event struct {
	log    Log
	logger *Logger
}

// Src sets the source.
func (e *Event) Src(source string) *Event {
	e.log.Src = source
	return e
}

// Video sets the video the event is about.
func (e *Event) Video(id string) *Event {
	e.log.Video = id
	return e
}

// Time overrides the event time.
func (e *Event) Time(t time.Time) *Event {
	e.log.Time = UnixMillisecond(t.UnixMilli())
	return e
}

// Msg sets the message and sends the event.
func (e *Event) Msg(msg string) {
	e.log.Msg = msg
	e.logger.feed <- e.log
}

// Msgf formats the message and sends the event.
func (e *Event) Msgf(format string, v ...interface{}) {
	e.Msg(fmt.Sprintf(format, v...))
}

type logFeed chan Log

// Logger fans out every log to all subscribers.
type Logger struct {
	feed  logFeed
	sub   chan logFeed
	unsub chan logFeed

	wg *sync.WaitGroup
}

// NewLogger returns a Logger, Start must be called before logging.
func NewLogger(wg *sync.WaitGroup) *Logger {
	return &Logger{
		feed:  make(logFeed),
		sub:   make(chan logFeed),
		unsub: make(chan logFeed),
		wg:    wg,
	}
}

// NewMockLogger used for testing.
func NewMockLogger() *Logger {
	return NewLogger(&sync.WaitGroup{})
}

// Start starts the fan-out loop, it stops when ctx is canceled.
func (l *Logger) Start(ctx context.Context) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		subs := make(map[logFeed]struct{})
		for {
			select {
			case <-ctx.Done():
				return
			case ch := <-l.sub:
				subs[ch] = struct{}{}
			case ch := <-l.unsub:
				delete(subs, ch)
				close(ch)
			case log := <-l.feed:
				for ch := range subs {
					ch <- log
				}
			}
		}
	}()
}

// CancelFunc ends a subscription.
type CancelFunc func()

// Subscribe returns a feed of all future logs.
func (l *Logger) Subscribe() (<-chan Log, CancelFunc) {
	feed := make(logFeed)
	l.sub <- feed
	return feed, func() { l.unSubscribe(feed) }
}

func (l *Logger) unSubscribe(feed logFeed) {
	// Drain until the loop accepts the request.
	for {
		select {
		case l.unsub <- feed:
			return
		case <-feed:
		}
	}
}

// LogToStdout prints logs at or above level to stdout.
func (l *Logger) LogToStdout(ctx context.Context, level Level) {
	l.LogToWriter(ctx, os.Stdout, level)
}

// LogToWriter prints logs at or above level to w until ctx is canceled.
// Debug logs are only printed when level is LevelDebug.
func (l *Logger) LogToWriter(ctx context.Context, w io.Writer, level Level) {
	feed, cancel := l.Subscribe()
	defer cancel()
	printFeed(ctx, feed, w, level)
}

func printFeed(ctx context.Context, feed <-chan Log, w io.Writer, level Level) {
	for {
		select {
		case log := <-feed:
			if log.Level > level {
				continue
			}
			fmt.Fprintln(w, formatLog(log))
		case <-ctx.Done():
			return
		}
	}
}

// formatLog "[LEVEL] video: src: msg".
func formatLog(log Log) string {
	var b strings.Builder
	if s := log.Level.String(); s != "" {
		b.WriteString("[" + s + "] ")
	}
	for _, prefix := range []string{log.Video, log.Src} {
		if prefix != "" {
			b.WriteString(prefix + ": ")
		}
	}
	b.WriteString(log.Msg)
	return b.String()
}

// Error starts an error event, Msg must be called to send it.
func (l *Logger) Error() *Event { return l.newEvent(LevelError) }

// Warn starts a warning event, Msg must be called to send it.
func (l *Logger) Warn() *Event { return l.newEvent(LevelWarning) }

// Info starts an info event, Msg must be called to send it.
func (l *Logger) Info() *Event { return l.newEvent(LevelInfo) }

// Debug starts a debug event, Msg must be called to send it.
func (l *Logger) Debug() *Event { return l.newEvent(LevelDebug) }

func (l *Logger) newEvent(level Level) *Event {
	return &Event{
		log: Log{
			Level: level,
			Time:  UnixMillisecond(time.Now().UnixMilli()),
		},
		logger: l,
	}
}

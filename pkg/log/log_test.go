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

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLogger() (context.Context, func(), *Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := NewMockLogger()
	logger.Start(ctx)

	return ctx, cancel, logger
}

func TestLogger(t *testing.T) {
	t.Run("event", func(t *testing.T) {
		_, cancel, logger := newTestLogger()
		defer cancel()

		feed, cancel2 := logger.Subscribe()
		defer cancel2()

		go logger.Error().
			Src("seq").
			Video("set00/V000").
			Time(time.UnixMilli(4000)).
			Msgf("frame %d: %v", 3, "truncated")

		expected := Log{
			Level: LevelError,
			Time:  4000,
			Msg:   "frame 3: truncated",
			Src:   "seq",
			Video: "set00/V000",
		}
		require.Equal(t, expected, <-feed)
	})
	t.Run("levels", func(t *testing.T) {
		_, cancel, logger := newTestLogger()
		defer cancel()

		feed, cancel2 := logger.Subscribe()
		defer cancel2()

		cases := []struct {
			event    func() *Event
			expected Level
		}{
			{logger.Error, LevelError},
			{logger.Warn, LevelWarning},
			{logger.Info, LevelInfo},
			{logger.Debug, LevelDebug},
		}
		for _, tc := range cases {
			go tc.event().Msg("")
			require.Equal(t, tc.expected, (<-feed).Level)
		}
	})
	t.Run("unsubBeforePrint", func(t *testing.T) {
		_, cancel, logger := newTestLogger()
		defer cancel()

		feed1, cancel1 := logger.Subscribe()
		feed2, cancel2 := logger.Subscribe()
		cancel2()

		logger.Info().Msg("test")
		actual1 := <-feed1
		actual2 := <-feed2
		cancel1()

		require.Equal(t, "test", actual1.Msg)
		require.Equal(t, Log{}, actual2)
	})
}

func TestParseLevel(t *testing.T) {
	for _, level := range []Level{LevelError, LevelWarning, LevelInfo, LevelDebug} {
		actual, err := ParseLevel(level.String())
		require.NoError(t, err)
		require.Equal(t, level, actual)
	}

	actual, err := ParseLevel("warning")
	require.NoError(t, err)
	require.Equal(t, LevelWarning, actual)

	_, err = ParseLevel("verbose")
	require.ErrorIs(t, err, ErrUnknownLevel)
}

func TestPrintFeed(t *testing.T) {
	feed := make(chan Log, 4)
	feed <- Log{Level: LevelDebug, Src: "app", Msg: "[1/2] extracted"}
	feed <- Log{Level: LevelInfo, Src: "app", Msg: "done"}
	feed <- Log{Level: LevelWarning, Src: "vbb", Video: "set00/V001", Msg: "no annotation file"}
	feed <- Log{Level: LevelError, Src: "seq", Msg: "truncated"}

	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		printFeed(ctx, feed, &buf, LevelInfo)
		close(done)
	}()
	require.Eventually(t, func() bool { return len(feed) == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done

	expected := "[INFO] app: done\n" +
		"[WARNING] set00/V001: vbb: no annotation file\n" +
		"[ERROR] seq: truncated\n"
	require.Equal(t, expected, buf.String())
}

func TestFormatLog(t *testing.T) {
	cases := []struct {
		input    Log
		expected string
	}{
		{
			Log{Level: LevelInfo, Src: "app", Msg: "done"},
			"[INFO] app: done",
		},
		{
			Log{Level: LevelWarning, Src: "vbb", Video: "set01/V002", Msg: "skipped"},
			"[WARNING] set01/V002: vbb: skipped",
		},
		{
			Log{Msg: "raw"},
			"raw",
		},
	}
	for _, tc := range cases {
		require.Equal(t, tc.expected, formatLog(tc.input))
	}
}

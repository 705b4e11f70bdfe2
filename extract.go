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

package seqvbb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"seqvbb/pkg/manifest"
	"seqvbb/pkg/seq"
	"seqvbb/pkg/storage"
	"seqvbb/pkg/vbb"

	"golang.org/x/sync/errgroup"
)

type batchResult struct {
	extracted int64
	skipped   int64
	failed    int64
}

// extractAll extracts videos in parallel, the whole
// video is the unit of work. Stops early if ctx is canceled.
func (app *App) extractAll(ctx context.Context, videos []storage.Video, workers int) batchResult {
	var result batchResult
	var progress int64

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, video := range videos {
		video := video
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			status := app.processVideo(video)
			switch status {
			case statusExtracted:
				atomic.AddInt64(&result.extracted, 1)
			case statusSkipped:
				atomic.AddInt64(&result.skipped, 1)
			case statusFailed:
				atomic.AddInt64(&result.failed, 1)
			}
			n := atomic.AddInt64(&progress, 1)
			app.Logger.Debug().Src("app").Video(video.ID()).
				Msgf("[%v/%v] %v", n, len(videos), status)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return result
}

type videoStatus string

const (
	statusExtracted videoStatus = "extracted"
	statusSkipped   videoStatus = "skipped"
	statusFailed    videoStatus = "failed"
)

func (app *App) processVideo(video storage.Video) videoStatus {
	id := video.ID()

	if app.force {
		// A failed extraction must not leave the old entry behind.
		if err := app.manifest.Delete(id); err != nil {
			app.Logger.Error().Src("app").Video(id).Msgf("could not update manifest: %v", err)
			return statusFailed
		}
	} else {
		entry, err := app.manifest.Get(id)
		if err != nil {
			app.Logger.Error().Src("app").Video(id).Msgf("could not read manifest: %v", err)
			return statusFailed
		}
		if entry != nil {
			return statusSkipped
		}
	}

	entry, err := app.extract(video)
	if err != nil {
		app.Logger.Error().Src("app").Video(id).Msgf("extraction failed: %v", err)
		return statusFailed
	}

	if err := app.manifest.Put(id, *entry); err != nil {
		app.Logger.Error().Src("app").Video(id).Msgf("could not update manifest: %v", err)
		return statusFailed
	}

	app.Logger.Info().Src("app").Video(id).Msgf(
		"extracted %v %v frames", entry.Frames, entry.Codec)
	return statusExtracted
}

func (app *App) extract(video storage.Video) (*manifest.Entry, error) {
	id := video.ID()

	frames, codec, err := app.extractFrames(video)
	if err != nil {
		return nil, err
	}

	annotatedFrames := -1
	annotation, err := vbb.DecodeFile(app.trees, video.AnnotationPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		app.Logger.Warn().Src("vbb").Video(id).Msgf(
			"no annotation file: %v", video.AnnotationPath)
	case err != nil:
		return nil, fmt.Errorf("annotations: %w", err)
	default:
		annotationDir := video.AnnotationDir(app.Env.SaveDir)
		if err := storage.WriteAnnotations(annotationDir, annotation); err != nil {
			return nil, fmt.Errorf("write annotations: %w", err)
		}
		annotatedFrames = annotation.FrameCount

		if annotation.FrameCount != frames {
			app.Logger.Warn().Src("vbb").Video(id).Msgf(
				"annotation has %v frames, container has %v", annotation.FrameCount, frames)
		}
	}

	return &manifest.Entry{
		RunID:           app.runID,
		Frames:          frames,
		Codec:           codec.Ext(),
		AnnotatedFrames: annotatedFrames,
		Time:            time.Now().UnixMilli(),
	}, nil
}

// extractFrames reads the whole container into
// memory and writes every frame to the image directory.
func (app *App) extractFrames(video storage.Video) (int, seq.Codec, error) {
	stat, err := os.Stat(video.SeqPath)
	if err != nil {
		return 0, 0, fmt.Errorf("stat container: %w", err)
	}
	if err := app.system.CheckMemory(stat.Size()); err != nil {
		return 0, 0, err
	}

	r, header, err := seq.OpenFile(video.SeqPath)
	if err != nil {
		return 0, 0, fmt.Errorf("open container: %w", err)
	}

	n, err := storage.WriteFrames(video.ImageDir(app.Env.SaveDir), r)
	if err != nil {
		return 0, 0, fmt.Errorf("write frames: %w", err)
	}
	return n, header.Codec, nil
}

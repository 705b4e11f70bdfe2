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
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"seqvbb/pkg/log"
	"seqvbb/pkg/manifest"
	"seqvbb/pkg/storage"
	"seqvbb/pkg/system"
	"seqvbb/pkg/vbb"

	"github.com/google/uuid"
)

// Run .
func Run() error {
	envFlag := flag.String("env", "", "path to env.yaml")
	dataFlag := flag.String("data", "", "dataset directory")
	saveFlag := flag.String("save", "", "directory to store the extracted data in")
	setsFlag := flag.String("sets", "", "comma separated list of sets to extract")
	workersFlag := flag.Int("workers", 0, "number of videos extracted in parallel")
	forceFlag := flag.Bool("force", false, "extract videos that are already in the manifest")
	verboseFlag := flag.Bool("verbose", false, "print debug logs")
	flag.Parse()

	if *envFlag == "" && *dataFlag == "" {
		flag.Usage()
		return nil
	}

	var envYAML []byte
	if *envFlag != "" {
		var err error
		envYAML, err = os.ReadFile(*envFlag)
		if err != nil {
			return fmt.Errorf("could not read env.yaml: %w", err)
		}
	}

	overrides := storage.ConfigEnv{Workers: *workersFlag}
	var err error
	if overrides.DataDir, err = absPath(*dataFlag); err != nil {
		return fmt.Errorf("could not get absolute path of data: %w", err)
	}
	if overrides.SaveDir, err = absPath(*saveFlag); err != nil {
		return fmt.Errorf("could not get absolute path of save: %w", err)
	}
	if *setsFlag != "" {
		overrides.Sets = strings.Split(*setsFlag, ",")
	}
	if *verboseFlag {
		overrides.LogLevel = "debug"
	}

	env, err := storage.NewConfigEnv(envYAML, overrides)
	if err != nil {
		return fmt.Errorf("could not get environment config: %w", err)
	}
	logLevel, err := log.ParseLevel(env.LogLevel)
	if err != nil {
		return err
	}

	wg := &sync.WaitGroup{}
	app := newApp(env, *forceFlag, wg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.Logger.Start(ctx)
	go app.Logger.LogToStdout(ctx, logLevel)

	done := make(chan error, 1)
	go func() { done <- app.run(ctx) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-done:
	case signal := <-stop:
		app.Logger.Info().Src("app").Msgf("received %v, stopping", signal)
		app.cancelBatch()
		err = <-done
	}

	cancel()
	wg.Wait()

	return err
}

func absPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filepath.Abs(path)
}

// App is the main application struct.
type App struct {
	WG     *sync.WaitGroup
	Logger *log.Logger
	Env    storage.ConfigEnv

	crawler  *storage.Crawler
	manifest *manifest.DB
	system   *system.System
	trees    vbb.TreeReader

	runID string
	force bool

	batchCtx    context.Context
	cancelBatch context.CancelFunc
}

func newApp(env *storage.ConfigEnv, force bool, wg *sync.WaitGroup) *App {
	batchCtx, cancelBatch := context.WithCancel(context.Background())
	return &App{
		WG:     wg,
		Logger: log.NewLogger(wg),
		Env:    *env,

		crawler:  storage.NewCrawler(env.DataDir, env.AnnotationExt),
		manifest: manifest.NewDB(env.Manifest, wg),
		system:   system.New(),
		trees:    vbb.FileTreeReader{},

		runID: uuid.NewString(),
		force: force,

		batchCtx:    batchCtx,
		cancelBatch: cancelBatch,
	}
}

// Errors.
var (
	ErrNoVideos  = errors.New("no videos found")
	ErrAllFailed = errors.New("every video failed")
)

// run extracts every video, ctx must be canceled after run returns.
// A video that fails to extract is logged and skipped.
func (app *App) run(ctx context.Context) error {
	defer app.cancelBatch()

	if err := app.Env.PrepareEnvironment(); err != nil {
		return fmt.Errorf("could not prepare environment: %w", err)
	}

	if err := app.manifest.Init(ctx); err != nil {
		return fmt.Errorf("could not initialize manifest: %w", err)
	}

	var videos []storage.Video
	for _, set := range app.Env.Sets {
		setVideos, err := app.crawler.Videos(set)
		if err != nil {
			return fmt.Errorf("set %v: %w", set, err)
		}
		videos = append(videos, setVideos...)
	}
	if len(videos) == 0 {
		return fmt.Errorf("%w: %v", ErrNoVideos, strings.Join(app.Env.Sets, ", "))
	}

	workers := app.system.Workers(app.Env.Workers)
	app.Logger.Info().Src("app").Msgf(
		"extracting %v videos from %v sets to %v, %v workers",
		len(videos), len(app.Env.Sets), app.Env.SaveDir, workers)

	result := app.extractAll(app.batchCtx, videos, workers)

	app.Logger.Info().Src("app").Msgf(
		"extraction complete: %v extracted, %v skipped, %v failed",
		result.extracted, result.skipped, result.failed)

	entries, err := app.manifest.List()
	if err != nil {
		return fmt.Errorf("could not list manifest: %w", err)
	}
	app.Logger.Info().Src("app").Msgf(
		"manifest %v: %v videos extracted", app.Env.Manifest, len(entries))

	if result.failed > 0 && result.extracted+result.skipped == 0 {
		return fmt.Errorf("%w: %v videos", ErrAllFailed, result.failed)
	}
	return nil
}

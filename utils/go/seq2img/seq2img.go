// Package seq2img is a CLI utility that extracts the frames of .seq files.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"seqvbb/pkg/seq"
	"seqvbb/pkg/storage"
)

const usage = `extract frames from .seq files into a directory next to each file
example: seq2img ./data/set00`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	args := os.Args
	if len(args) != 2 {
		fmt.Println(usage)
		return nil
	}

	var videos []string

	path := args[1]

	walkFunc := func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%v %w", path, err)
		}
		if info.IsDir() || !strings.HasSuffix(path, ".seq") {
			return nil
		}

		video := strings.TrimSuffix(path, ".seq")

		_, err = os.Stat(video)
		if !errors.Is(err, os.ErrNotExist) {
			return nil
		}

		videos = append(videos, video)
		return nil
	}
	err := filepath.WalkDir(path, walkFunc)
	if err != nil {
		return err
	}

	nVideos := len(videos)
	fmt.Printf("Found %v new videos.\n", nVideos)

	chResults := make(chan result, nVideos)
	for _, video := range videos {
		go func(video string) {
			n, err := convert(video)
			chResults <- result{
				video:  video,
				frames: n,
				err:    err,
			}
		}(video)
	}

	for i := 1; i <= nVideos; i++ {
		result := <-chResults
		fmt.Printf("[%v/%v]", i, nVideos)
		if result.err != nil {
			fmt.Printf("[ERR] %v %v\n", result.video, result.err)
			continue
		}
		fmt.Printf("[OK] %v %v frames\n", result.video, result.frames)
	}
	return nil
}

type result struct {
	video  string
	frames int
	err    error
}

func convert(video string) (int, error) {
	r, _, err := seq.OpenFile(video + ".seq")
	if err != nil {
		return 0, fmt.Errorf("open container: %w", err)
	}

	n, err := storage.WriteFrames(video, r)
	if err != nil {
		return n, fmt.Errorf("write frames: %w", err)
	}
	return n, nil
}

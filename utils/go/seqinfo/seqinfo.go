// Package seqinfo is a script for debugging .seq frame splitting.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"seqvbb/pkg/seq"
)

const usage = `print the header and frame layout of a .seq file
example: seqinfo ./data/set00/V000.seq`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) != 2 {
		fmt.Println(usage)
		return nil
	}

	r, header, err := seq.OpenFile(os.Args[1])
	if err != nil {
		return err
	}

	fmt.Printf("size:        %vx%v, %v bit\n", header.Width, header.Height, header.BitDepth)
	fmt.Printf("version:     %v\n", header.Version)
	fmt.Printf("format:      %v (%v)\n", header.FormatCode, header.Codec)
	fmt.Printf("frames:      %v\n", header.FrameCount)
	fmt.Printf("image size:  %v declared, %v true\n", header.DeclaredSize, header.TrueSize)

	var total int
	for {
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if frame.Index == 0 {
			fmt.Printf("padding:     %v\n", r.Padding())
		}
		total += len(frame.Payload)
	}
	fmt.Printf("payload:     %v bytes\n", total)
	return nil
}

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

// Package system probes host resources used to size the extraction.
package system

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type (
	cpuFunc func(logical bool) (int, error)
	ramFunc func() (*mem.VirtualMemoryStat, error)
)

// System .
type System struct {
	cpu cpuFunc
	ram ramFunc
}

// New returns new System.
func New() *System {
	return &System{
		cpu: cpu.Counts,
		ram: mem.VirtualMemory,
	}
}

// Workers returns configured if it is set, otherwise the
// logical cpu count. Never less than 1.
func (s *System) Workers(configured int) int {
	if configured > 0 {
		return configured
	}
	n, err := s.cpu(true)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ErrInsufficientMemory file does not fit in available memory.
var ErrInsufficientMemory = errors.New("insufficient memory")

// CheckMemory returns ErrInsufficientMemory if size
// bytes are more than the available memory.
func (s *System) CheckMemory(size int64) error {
	ram, err := s.ram()
	if err != nil {
		return fmt.Errorf("could not get ram usage %w", err)
	}
	if size > 0 && uint64(size) > ram.Available {
		return fmt.Errorf("%w: need %d bytes, %d available",
			ErrInsufficientMemory, size, ram.Available)
	}
	return nil
}

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

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"seqvbb/pkg/log"

	"gopkg.in/yaml.v3"
)

// ConfigEnv stores extraction configuration.
type ConfigEnv struct {
	DataDir       string   `yaml:"dataDir"`
	SaveDir       string   `yaml:"saveDir"`
	Sets          []string `yaml:"sets"`
	Workers       int      `yaml:"workers"`
	AnnotationExt string   `yaml:"annotationExt"`
	Manifest      string   `yaml:"manifest"`
	LogLevel      string   `yaml:"logLevel"`
}

// DefaultSets sets of the dataset.
var DefaultSets = []string{
	"set00", "set01", "set02", "set03", "set04", "set05",
	"set06", "set07", "set08", "set09", "set10",
}

// Errors.
var (
	ErrPathNotAbsolute = errors.New("path is not absolute")
	ErrNoDataDir       = errors.New("dataDir is not set")
	ErrInvalidWorkers  = errors.New("invalid worker count")
)

// NewConfigEnv return new environment configuration. Non-zero
// fields in overrides take precedence over the YAML values.
func NewConfigEnv(envYAML []byte, overrides ConfigEnv) (*ConfigEnv, error) {
	var env ConfigEnv

	if err := yaml.Unmarshal(envYAML, &env); err != nil {
		return nil, fmt.Errorf("unmarshal env.yaml: %w", err)
	}

	if overrides.DataDir != "" {
		env.DataDir = overrides.DataDir
	}
	if overrides.SaveDir != "" {
		env.SaveDir = overrides.SaveDir
	}
	if len(overrides.Sets) != 0 {
		env.Sets = overrides.Sets
	}
	if overrides.Workers != 0 {
		env.Workers = overrides.Workers
	}
	if overrides.AnnotationExt != "" {
		env.AnnotationExt = overrides.AnnotationExt
	}
	if overrides.Manifest != "" {
		env.Manifest = overrides.Manifest
	}
	if overrides.LogLevel != "" {
		env.LogLevel = overrides.LogLevel
	}

	if env.DataDir == "" {
		return nil, ErrNoDataDir
	}
	if env.SaveDir == "" {
		env.SaveDir = filepath.Join(env.DataDir, "extracted_data")
	}
	if len(env.Sets) == 0 {
		env.Sets = DefaultSets
	}
	if env.AnnotationExt == "" {
		env.AnnotationExt = ".vbb.json"
	}
	if env.Manifest == "" {
		env.Manifest = filepath.Join(env.SaveDir, "manifest.db")
	}
	if env.LogLevel == "" {
		env.LogLevel = "info"
	}

	if env.Workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, env.Workers)
	}
	if _, err := log.ParseLevel(env.LogLevel); err != nil {
		return nil, fmt.Errorf("logLevel: %w", err)
	}
	if !filepath.IsAbs(env.DataDir) {
		return nil, fmt.Errorf("dataDir '%v': %w", env.DataDir, ErrPathNotAbsolute)
	}
	if !filepath.IsAbs(env.SaveDir) {
		return nil, fmt.Errorf("saveDir '%v': %w", env.SaveDir, ErrPathNotAbsolute)
	}
	if !filepath.IsAbs(env.Manifest) {
		return nil, fmt.Errorf("manifest '%v': %w", env.Manifest, ErrPathNotAbsolute)
	}
	if !dirExist(env.DataDir) {
		return nil, fmt.Errorf("dataDir '%v': %w", env.DataDir, os.ErrNotExist)
	}

	return &env, nil
}

// PrepareEnvironment prepares directories.
func (env ConfigEnv) PrepareEnvironment() error {
	err := os.MkdirAll(env.SaveDir, 0o755)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create save directory: %v: %w", env.SaveDir, err)
	}

	err = os.MkdirAll(filepath.Dir(env.Manifest), 0o755)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create manifest directory: %v: %w", env.Manifest, err)
	}
	return nil
}

func dirExist(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return true
}

// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Loader handles loading ROM files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new ROM loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads a raw CHIP-8 ROM file. ROMs that do not fit into the program
// memory are rejected before they are read. An odd sized ROM is padded with
// a zero byte as programs consist of 2 byte instruction words.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("getting file info of %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > chip8.MaxProgramSize {
		return nil, fmt.Errorf("file %s has %d bytes, maximum is %d: %w",
			path, info.Size(), chip8.MaxProgramSize, chip8.ErrProgramTooLarge)
	}

	return l.read(file, path)
}

func (l *Loader) read(reader io.Reader, path string) ([]byte, error) {
	// guard against files growing after the size check
	data, err := io.ReadAll(io.LimitReader(reader, chip8.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	if len(data) > chip8.MaxProgramSize {
		return nil, fmt.Errorf("file %s exceeds %d bytes: %w", path, chip8.MaxProgramSize, chip8.ErrProgramTooLarge)
	}

	if len(data)%2 != 0 {
		l.logger.Warn("ROM has an odd size, padding with a zero byte",
			log.String("file", path),
			log.Int("size", len(data)))
		data = append(data, 0)
	}

	l.logger.Debug("ROM loaded", log.String("file", path), log.Int("size", len(data)))
	return data, nil
}

/*
NAME
  file.go - looping file-backed subchannel reader.

DESCRIPTION
  FileReader supplies subchannel octets from a pre-encoded file (already
  MPEG-1 Layer II, HE-AAC v2 superframe, or raw packet/stream-data
  octets - this package never touches audio codecs), optionally looping
  back to the start on EOF. Adapted directly from the teacher's
  device/file/file.go AVFile, trimmed of the config.Config coupling
  since dabmux's config package (see config/config.go) models
  subchannel sources directly rather than through a generic AV device
  config.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package input

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ausocean/utils/logging"
)

// FileReader implements Reader for a local file.
type FileReader struct {
	path      string
	loop      bool
	log       logging.Logger
	mu        sync.Mutex
	f         *os.File
	isRunning bool
}

// NewFileReader returns a FileReader for path, looping back to the
// start of the file on EOF when loop is true.
func NewFileReader(log logging.Logger, path string, loop bool) *FileReader {
	return &FileReader{log: log, path: path, loop: loop}
}

// Start opens the file.
func (r *FileReader) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("input: could not open subchannel file: %w", err)
	}
	r.f = f
	r.isRunning = true
	return nil
}

// Read implements io.Reader, looping to the start of the file on EOF
// when configured to do so.
func (r *FileReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return 0, fmt.Errorf("input: file reader not started")
	}

	n, err := r.f.Read(p)
	if err != nil && err != io.EOF {
		return n, err
	}
	if (n < len(p) || err == io.EOF) && r.loop {
		r.log.Info("looping subchannel input file", "path", r.path)
		if _, serr := r.f.Seek(0, io.SeekStart); serr != nil {
			return n, fmt.Errorf("input: could not seek to start for loop: %w", serr)
		}
		n2, rerr := r.f.Read(p[n:])
		return n + n2, rerr
	}
	return n, err
}

// Close closes the underlying file.
func (r *FileReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isRunning = false
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}

// IsRunning reports whether the file is open.
func (r *FileReader) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning && r.f != nil
}

// Read small procfs/cgroupfs files into reusable buffers from a pool; the
// queries may be invoked frequently (e.g. every time a worker pool is resized)
// so this avoids allocating a buffer per file read.

package amicontained_internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	READ_FILE_BUF_POOL_MAX_SIZE_DEFAULT = 8
)

// Reading a file is capped by a max size; if the cap is reached then the file
// was possibly truncated (stat reports size 0 for pseudo files, so it cannot
// be used to determine the actual size). This is an error since the parsed
// content would be incomplete.
var ErrReadFileBufPotentialTruncation = errors.New("potential truncation")

type ReadFileBufPool struct {
	// The pool of buffers; if the pool is empty at retrieval time, a new buffer
	// is created.
	pool []*bytes.Buffer
	// Max pool size, if > 0, unlimited otherwise. A burst of concurrent queries
	// may create more buffers than the steady state; keep only up to a limit
	// upon return.
	maxPoolSize int
	// Max read size, if > 0, unlimited otherwise:
	maxReadSize int64
	mu          *sync.Mutex
}

func NewReadFileBufPool(maxPoolSize int, maxReadSize int64) *ReadFileBufPool {
	return &ReadFileBufPool{
		pool:        make([]*bytes.Buffer, 0),
		maxPoolSize: maxPoolSize,
		maxReadSize: maxReadSize,
		mu:          &sync.Mutex{},
	}
}

func (p *ReadFileBufPool) GetBuf() *bytes.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.pool); n > 0 {
		buf := p.pool[n-1]
		p.pool = p.pool[:n-1]
		buf.Reset()
		return buf
	}
	return &bytes.Buffer{}
}

func (p *ReadFileBufPool) ReturnBuf(b *bytes.Buffer) {
	if b == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxPoolSize > 0 && len(p.pool) >= p.maxPoolSize {
		return
	}
	p.pool = append(p.pool, b)
}

func (p *ReadFileBufPool) PoolSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pool)
}

// ReadFile returns the content of the file in a pool buffer, which should be
// returned via ReturnBuf after use. The buffer is also returned, together w/
// ErrReadFileBufPotentialTruncation, if the max read size was reached.
func (p *ReadFileBufPool) ReadFile(path string) (*bytes.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := p.GetBuf()
	if p.maxReadSize > 0 {
		_, err = io.CopyN(b, f, p.maxReadSize)
		if err == io.EOF {
			err = nil
		} else if err == nil {
			err = ErrReadFileBufPotentialTruncation
		}
	} else {
		_, err = b.ReadFrom(f)
	}
	if err == nil || err == ErrReadFileBufPotentialTruncation {
		return b, err
	}
	p.ReturnBuf(b)
	return nil, err
}

// ReadFileString returns the content of the file w/ the surrounding white
// space trimmed. A truncated file is reported as an error.
func (p *ReadFileBufPool) ReadFileString(path string) (string, error) {
	b, err := p.ReadFile(path)
	if b != nil {
		defer p.ReturnBuf(b)
	}
	if err == ErrReadFileBufPotentialTruncation {
		return "", fmt.Errorf("%s: %w (max read size %d)", path, err, p.maxReadSize)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

func (p *ReadFileBufPool) MaxPoolSize() int {
	return p.maxPoolSize
}

func (p *ReadFileBufPool) MaxReadSize() int64 {
	return p.maxReadSize
}

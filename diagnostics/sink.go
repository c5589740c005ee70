package diagnostics

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/regdiag/pkg/errors"
)

// Sink は描画済みの図の出力先。name は図の識別子（例: "normal_qq"）。
type Sink interface {
	Write(name string, p *plot.Plot, width, height vg.Length) error
}

// FileSink は図を Dir/<name>.<Format> に保存する。
// Format は gonum/plot が対応する形式（png, svg, pdf, eps, jpg, tif）。
type FileSink struct {
	Dir    string
	Format string
}

// Write saves p under Dir, creating the directory if needed.
func (s FileSink) Write(name string, p *plot.Plot, width, height vg.Length) error {
	format := s.Format
	if format == "" {
		format = DefaultFormat
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "FileSink: create %s", dir)
	}
	path := filepath.Join(dir, name+"."+format)
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "FileSink: save %s", path)
	}
	return nil
}

func (s FileSink) String() string {
	return "file:" + s.Dir
}

// MemorySink は図をエンコード済みバイト列としてメモリに保持する。
// 複数のプロッタから共有してよい。
type MemorySink struct {
	Format string

	mu      sync.Mutex
	figures map[string][]byte
}

// NewMemorySink creates a MemorySink encoding figures in format.
func NewMemorySink(format string) *MemorySink {
	return &MemorySink{Format: format, figures: make(map[string][]byte)}
}

// Write encodes p and stores it under name, replacing any previous figure.
func (s *MemorySink) Write(name string, p *plot.Plot, width, height vg.Length) error {
	var buf bytes.Buffer
	if err := encode(&buf, p, width, height, s.Format); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.figures == nil {
		s.figures = make(map[string][]byte)
	}
	s.figures[name] = buf.Bytes()
	return nil
}

// Get returns the encoded figure stored under name.
func (s *MemorySink) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.figures[name]
	return b, ok
}

// Names returns the stored figure names in sorted order.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.figures))
	for name := range s.figures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *MemorySink) String() string {
	return "memory"
}

// WriterSink は図ごとに Open が返す Writer にエンコードする。
// Open が io.Closer を返した場合は書き込み後に閉じる。
type WriterSink struct {
	Format string
	Open   func(name string) (io.Writer, error)
}

// Write encodes p to the writer returned by Open(name).
func (s WriterSink) Write(name string, p *plot.Plot, width, height vg.Length) (err error) {
	if s.Open == nil {
		return errors.NewValueError("WriterSink.Write", "Open is nil")
	}
	w, err := s.Open(name)
	if err != nil {
		return errors.Wrapf(err, "WriterSink: open %s", name)
	}
	if c, ok := w.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = errors.Wrapf(cerr, "WriterSink: close %s", name)
			}
		}()
	}
	return encode(w, p, width, height, s.Format)
}

func (s WriterSink) String() string {
	return "writer"
}

func encode(w io.Writer, p *plot.Plot, width, height vg.Length, format string) error {
	if format == "" {
		format = DefaultFormat
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return errors.Wrapf(err, "encode %s", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrapf(err, "encode %s", format)
	}
	return nil
}

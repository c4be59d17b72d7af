package phttp

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned from writes that would grow the buffered body past the
// configured limit. Nothing is written in that case, not even a prefix.
var ErrBufferFull = errors.New("response buffer is full")

// ResponseBuffer is a poolable [ResponseWriter] that holds status, headers and body in
// memory until flushed. Explicit flushing is supported through http.NewResponseController;
// after any bytes reached the underlying writer the buffer can no longer be [Reset].
type ResponseBuffer struct {
	resp   http.ResponseWriter
	header http.Header
	body   bytes.Buffer
	limit  int
	status int

	headerFlushed bool
}

var responsePool = sync.Pool{New: func() any { return &ResponseBuffer{} }}

// NewBufferResponse initializes a buffered response writer around 'resp'. A negative
// limit disables the write limit. Call [ResponseBuffer.Free] when done with it.
func NewBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	return newBufferResponse(resp, limit)
}

func newBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	b, _ := responsePool.Get().(*ResponseBuffer)
	b.resp = resp
	b.header = make(http.Header)
	b.limit = limit

	return b
}

// Header implements http.ResponseWriter. The returned map may be modified until the
// buffer is flushed.
func (b *ResponseBuffer) Header() http.Header {
	return b.header
}

// WriteHeader implements http.ResponseWriter. The first call wins, later calls are
// ignored until a [ResponseBuffer.Reset].
func (b *ResponseBuffer) WriteHeader(statusCode int) {
	if b.status == 0 {
		b.status = statusCode
	}
}

// Write implements http.ResponseWriter, writing to the in-memory buffer. It fails with
// [ErrBufferFull] when the write would exceed the configured limit.
func (b *ResponseBuffer) Write(p []byte) (int, error) {
	if b.limit >= 0 && b.body.Len()+len(p) > b.limit {
		return 0, ErrBufferFull
	}

	return b.body.Write(p)
}

// Status returns the buffered status code, 200 when none was written explicitly.
func (b *ResponseBuffer) Status() int {
	if b.status == 0 {
		return http.StatusOK
	}

	return b.status
}

// Reset discards the buffered status, headers and body. It panics when the response was
// already (explicitly) flushed since those bytes cannot be recalled.
func (b *ResponseBuffer) Reset() {
	if b.headerFlushed {
		panic("phttp: response already flushed, cannot reset")
	}

	b.status = 0
	b.body.Reset()
	clear(b.header)
}

// TruncateBody discards any buffered body bytes while keeping status and headers. The
// dispatcher uses it to enforce empty bodies on HEAD responses.
func (b *ResponseBuffer) TruncateBody() {
	b.body.Reset()
}

// FlushError flushes the buffered response to the underlying writer and reports any
// write error. http.NewResponseController discovers this method for explicit flushes.
func (b *ResponseBuffer) FlushError() error {
	return b.flush()
}

// FlushBuffer performs the implicit final flush, called by the dispatcher exactly once
// after the pipeline produced its response.
func (b *ResponseBuffer) FlushBuffer() error {
	return b.flush()
}

// Unwrap provides access to the underlying response writer.
func (b *ResponseBuffer) Unwrap() http.ResponseWriter {
	return b.resp
}

// Free resets the buffer and returns it to the pool. The buffer must not be used after.
func (b *ResponseBuffer) Free() {
	b.resp = nil
	b.header = nil
	b.status = 0
	b.limit = 0
	b.headerFlushed = false
	b.body.Reset()

	responsePool.Put(b)
}

func (b *ResponseBuffer) flush() error {
	if !b.headerFlushed {
		dst := b.resp.Header()
		for k, v := range b.header {
			dst[k] = v
		}

		b.resp.WriteHeader(b.Status())
		b.headerFlushed = true
	}

	if _, err := b.body.WriteTo(b.resp); err != nil {
		return errors.Wrap(err, "write buffered body")
	}

	return nil
}

var _ ResponseWriter = &ResponseBuffer{}

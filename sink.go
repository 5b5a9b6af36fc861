package formcheck

import (
	"fmt"
	"io"
	"sync"
)

// ErrorSink receives every field result the form validator produces. A sink
// shows the latest result per field, replacing what it showed before.
type ErrorSink interface {
	Render(result ValidationResult)
}

// ErrorSinkFunc adapts a function to ErrorSink.
type ErrorSinkFunc func(result ValidationResult)

func (f ErrorSinkFunc) Render(result ValidationResult) { f(result) }

type nopSink struct{}

func (nopSink) Render(ValidationResult) {}

// MemorySink keeps the latest result per field. It is safe for concurrent use.
type MemorySink struct {
	mu      sync.RWMutex
	results map[string]ValidationResult
}

func NewMemorySink() *MemorySink {
	return &MemorySink{results: make(map[string]ValidationResult)}
}

func (ms *MemorySink) Render(result ValidationResult) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.results[result.Field()] = result
}

// Result returns the latest result rendered for field.
func (ms *MemorySink) Result(field string) (ValidationResult, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result, ok := ms.results[field]
	return result, ok
}

// Messages returns the messages currently shown for field.
func (ms *MemorySink) Messages(field string) []string {
	result, ok := ms.Result(field)
	if !ok {
		return nil
	}
	return result.Messages()
}

// Clear forgets every rendered result.
func (ms *MemorySink) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.results = make(map[string]ValidationResult)
}

// WriterSink renders each result as a plain text list:
//
//	email: 2 error(s)
//	  - Email length must be at least 5 and at most 50
//	  - Email format is incorrect
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (ws *WriterSink) Render(result ValidationResult) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if result.Valid() {
		fmt.Fprintf(ws.w, "%s: ok\n", result.Field())
		return
	}

	fmt.Fprintf(ws.w, "%s: %d error(s)\n", result.Field(), len(result.messages))
	for _, msg := range result.messages {
		fmt.Fprintf(ws.w, "  - %s\n", msg)
	}
}

package sse

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Writer pushes server-sent events to a single client connection.
type Writer struct {
	w       gin.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares the response for an event stream. Fails when the
// underlying writer cannot flush.
func NewWriter(c *gin.Context) (*Writer, error) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported by response writer")
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()
	return &Writer{w: c.Writer, flusher: flusher}, nil
}

// Data writes one data event and flushes it to the client.
func (w *Writer) Data(s string) {
	fmt.Fprintf(w.w, "data: %s\n\n", s)
	w.flusher.Flush()
}

// JSON marshals v and writes it as a data event.
func (w *Writer) JSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Data(string(b))
	return nil
}

package utils

import (
	"io"
	"net/http"
)

// SafeClose closes c and logs the error if any
func SafeClose(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		Logger().Warn("failed to close", ErrLog(err))
	}
}

// SafeWrite writes data to w and logs the error if any
func SafeWrite(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		Logger().Warn("failed to write response", ErrLog(err))
	}
}

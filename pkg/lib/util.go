package lib

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// NewID generates a UUID version 4 string (RFC 4122)
func NewID() string {
	return uuid.NewString()
}

// ErrnoMessage formats an OS error code as "[0x<code>] <message>".
func ErrnoMessage(code int) string {
	return fmt.Sprintf("[0x%X] %s", uint32(code), unix.Errno(code).Error())
}

// ErrnoName returns the symbolic name of an OS error code, e.g. "ENOENT".
// Unknown codes yield an empty string.
func ErrnoName(code int) string {
	return unix.ErrnoName(unix.Errno(code))
}

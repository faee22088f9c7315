package provider

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"syscall"

	"github.com/go-sql-driver/mysql"
)

// ErrNoFields is returned by Update when nothing but the id would be written.
var ErrNoFields = errors.New("no fields to update")

// IsConnReset reports whether err means the server dropped the connection,
// which the provider recovers from by reconnecting.
func IsConnReset(err error) bool {
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn)
}

// IsConnFatal reports whether err is a connection-level failure other than a
// reset. Such errors are handed to the fatal handler. Context cancellation
// and deadlines belong to the caller and never count, even though
// context.DeadlineExceeded satisfies net.Error.
func IsConnFatal(err error) bool {
	if err == nil || IsConnReset(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

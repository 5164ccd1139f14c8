package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"
)

// ErrDuplicateKey is returned when an insert violates a unique constraint.
var ErrDuplicateKey = errors.New("duplicate key")

const (
	uniqueViolation        = pq.ErrorCode("23505")
	connectionExceptionCls = pq.ErrorClass("08")
	adminShutdownCls       = pq.ErrorClass("57")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// IsUnavailable reports whether err is a transient connectivity failure of the
// store, as opposed to a query or constraint error.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		cls := pqErr.Code.Class()
		return cls == connectionExceptionCls || cls == adminShutdownCls
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

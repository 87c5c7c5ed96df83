package mysqlmcp

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/rickchristie/mysql-mcp/internal/errs"
)

// Connector opens a database handle for one tool call. The Gateway closes
// the handle before the call returns.
type Connector interface {
	Open(ctx context.Context, params ConnectionParams) (*sql.DB, error)
}

// dialectConnector opens handles with the dialect named by params.Driver.
type dialectConnector struct {
	connectTimeout time.Duration
	logger         zerolog.Logger
}

func (c dialectConnector) Open(_ context.Context, params ConnectionParams) (*sql.DB, error) {
	d, ok := lookupDialect(params.Driver)
	if !ok {
		return nil, errs.New(errs.ErrKindConfig, "unsupported driver "+params.Driver)
	}
	return d.open(params, openOptions{connectTimeout: c.connectTimeout, logger: c.logger})
}

// withConnection runs body on exactly one connection, after the configured
// session settings have been applied to it. The connection and its handle
// are closed on every exit path, including a panic in body.
func (g *Gateway) withConnection(ctx context.Context, params ConnectionParams, body func(ctx context.Context, conn *sql.Conn) error) error {
	db, err := g.connector.Open(ctx, params)
	if err != nil {
		return connectError(ctx, params, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	conn, err := db.Conn(ctx)
	if err != nil {
		return connectError(ctx, params, err)
	}
	defer conn.Close()

	if err := g.applySession(ctx, params, conn); err != nil {
		return err
	}
	return body(ctx, conn)
}

func (g *Gateway) applySession(ctx context.Context, params ConnectionParams, conn *sql.Conn) error {
	d, ok := lookupDialect(params.Driver)
	if !ok {
		return nil
	}
	for _, stmt := range d.session(g.config) {
		if _, err := conn.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return queryError(ctx, err)
		}
	}
	return nil
}

func connectError(ctx context.Context, params ConnectionParams, err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	msg := "connect to " + params.Driver
	if d, ok := lookupDialect(params.Driver); ok {
		msg = "connect to " + d.target(params)
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && isPrivilegeError(mysqlErr.Number) {
		return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
	}
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// MySQL server error numbers the gateway distinguishes.
const (
	erDBAccessDenied     = 1044
	erAccessDenied       = 1045
	erBadDB              = 1049
	erNoSuchTable        = 1146
	erTableAccessDenied  = 1142
	erColumnAccessDenied = 1143
	crConnectionError    = 2002
	crConnHostError      = 2003
	crUnknownHost        = 2005
	crServerLost         = 2013
)

func isPrivilegeError(number uint16) bool {
	switch number {
	case erDBAccessDenied, erTableAccessDenied, erColumnAccessDenied:
		return true
	}
	return false
}

// queryError classifies an error returned by a statement executed on an
// open connection. The driver text is kept as the whole message.
func queryError(ctx context.Context, err error) error {
	const msg = ""
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch {
		case mysqlErr.Number == erNoSuchTable:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case isPrivilegeError(mysqlErr.Number):
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case mysqlErr.Number == erAccessDenied, mysqlErr.Number == erBadDB,
			mysqlErr.Number == crConnectionError, mysqlErr.Number == crConnHostError,
			mysqlErr.Number == crUnknownHost, mysqlErr.Number == crServerLost:
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		}
		return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

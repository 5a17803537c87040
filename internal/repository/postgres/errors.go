package postgres

import (
	"context"
	"errors"

	apperrors "drinks-service/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isConnectionFailure(err error) bool {
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded)
}

// wrapQueryError reports an unreachable database as unavailable and wraps
// everything else with the operation's message.
func wrapQueryError(err error, wrap func(error) error) error {
	if isConnectionFailure(err) {
		return apperrors.Unavailable(errDatabaseUnavailable, err)
	}
	return wrap(err)
}

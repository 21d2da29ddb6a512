package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsUniqueViolation reports whether err is a Postgres 23505, i.e. the partial
// unique index on (barbershop_id, date, time) rejected a concurrent insert.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

package users

import (
	"errors"
	"strconv"

	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

var PostgresDialect = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	IsUniqueViolation: func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
	},
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return NewSQLRepository(db, PostgresDialect)
}

package users

import (
	"errors"

	"github.com/dmitrijs2005/authgate/internal/dbx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var SQLiteDialect = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	IsUniqueViolation: func(err error) bool {
		var liteErr *sqlite.Error
		return errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	},
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return NewSQLRepository(db, SQLiteDialect)
}

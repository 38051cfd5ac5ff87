package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL (SQLSTATE)
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// postgresDuplicate сообщает о нарушении уникального индекса.
func postgresDuplicate(err error) bool {
	return pgErrCode(err) == uniqueViolation
}

// postgresForeignKey сообщает о нарушении внешнего ключа.
func postgresForeignKey(err error) bool {
	return pgErrCode(err) == foreignKeyViolation
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

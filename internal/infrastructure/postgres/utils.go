package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE de unique_violation.
const uniqueViolationCode = "23505"

// isUniqueViolation indica si err viene de un índice o constraint único
// (SKU de ítem, nombre de bodega, email de usuario, consecutivos).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

package postgres

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
// constraint, si no está vacío, limita la coincidencia a ese constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return constraint == "" && strings.Contains(err.Error(), "23505")
}

// placeholder devuelve "$n" para el siguiente argumento.
func placeholder(args []any) string {
	return "$" + strconv.Itoa(len(args))
}

// limitOffset agrega LIMIT/OFFSET a la consulta si limit > 0.
func limitOffset(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		return query, args
	}
	args = append(args, limit)
	query += " LIMIT " + placeholder(args)
	args = append(args, offset)
	query += " OFFSET " + placeholder(args)
	return query, args
}

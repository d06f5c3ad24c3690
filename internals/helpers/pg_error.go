package helper

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// --- PG error mapping (pgx/libpq) ---
func MapPGError(err error) (int, string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return mapPGCode(pgxErr.Code, pgxErr.Message)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return mapPGCode(string(pqErr.Code), pqErr.Message)
	}
	// fallback: cek substring (driver lain / error dibungkus string)
	if IsUniqueViolation(err) {
		return http.StatusConflict, "Data duplikat (unique violation)."
	}
	return http.StatusInternalServerError, err.Error()
}

func mapPGCode(code, msg string) (int, string) {
	switch code {
	case "23505":
		return http.StatusConflict, "Data duplikat (unique violation)."
	case "23503":
		return http.StatusBadRequest, "Referensi tidak ditemukan (FK violation)."
	case "23514":
		return http.StatusBadRequest, "Data melanggar constraint (check violation)."
	case "57014":
		return http.StatusGatewayTimeout, "Query timeout."
	default:
		return http.StatusInternalServerError, msg
	}
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "duplicate key value") || strings.Contains(low, "unique constraint")
}

package dao

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const mysqlDuplicateEntry = 1062

var (
	ErrUsernameExists    = errors.New("username already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrSKUExists         = errors.New("item with this sku already exists")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNumberExists = errors.New("order with this order number already exists")
	ErrQuantityOverflow  = errors.New("quantity would exceed the maximum")
)

// isUniqueViolation reports whether err is a unique constraint failure on any
// of the supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

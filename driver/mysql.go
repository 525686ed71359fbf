package driver

import (
	"errors"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/dbal-go/dbal/dialect"
)

// MySQLDriver drives MySQL/MariaDB through go-sql-driver/mysql.
type MySQLDriver struct {
	sqlDriver
}

// NewMySQL returns an unconnected MySQL driver.
func NewMySQL(dsn string) *MySQLDriver {
	return &MySQLDriver{sqlDriver{
		name:        "mysql",
		driverName:  "mysql",
		dsn:         dsn,
		dia:         &dialect.MySQL{},
		hasInsertID: true,
		classify:    mysqlErrorCode,
	}}
}

// mysqlErrorCode extracts the server error number from a driver error.
func mysqlErrorCode(err error) string {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}
	return ""
}

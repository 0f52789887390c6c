package repositories

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported stores.
// Queries are written with '?' placeholders and rebound per dialect.
type Dialect struct {
	Name       string
	numbered   bool   // $1, $2 ... instead of ?
	lockSuffix string // row lock for read-modify-write
}

var (
	DialectSQLite   = Dialect{Name: "sqlite"}
	DialectPostgres = Dialect{Name: "postgres", numbered: true, lockSuffix: " FOR UPDATE"}
)

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DialectSQLite.Name:
		return DialectSQLite, nil
	case DialectPostgres.Name:
		return DialectPostgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported driver %q", driver)
}

// Rebind rewrites '?' placeholders into the dialect's bind variable form.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

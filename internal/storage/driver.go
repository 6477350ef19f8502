// ABOUTME: Custom sqlite3 driver registration with the query primitives the catalog needs
// ABOUTME: Adds a UNIX_TIMESTAMP scalar function and a comma-joining GROUP_CONCAT aggregate

package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// driverName is the database/sql driver carrying the custom functions.
const driverName = "sqlite3_mediathek"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("UNIX_TIMESTAMP", unixTimestamp, false); err != nil {
				return err
			}
			return conn.RegisterAggregator("GROUP_CONCAT", newGroupConcat, false)
		},
	})
}

func unixTimestamp() int64 {
	return time.Now().Unix()
}

// groupConcat joins group values with commas, skipping NULLs. Used to
// merge the ids and channel names of same-named shows into one row.
type groupConcat struct {
	parts []string
}

func newGroupConcat() *groupConcat {
	return &groupConcat{}
}

func (g *groupConcat) Step(v interface{}) {
	switch x := v.(type) {
	case nil:
	case string:
		g.parts = append(g.parts, x)
	case []byte:
		g.parts = append(g.parts, string(x))
	case int64:
		g.parts = append(g.parts, strconv.FormatInt(x, 10))
	default:
		g.parts = append(g.parts, fmt.Sprint(x))
	}
}

func (g *groupConcat) Done() string {
	return strings.Join(g.parts, ",")
}

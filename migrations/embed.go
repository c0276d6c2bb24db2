// Package migrations embeds the SQL schema migrations for each backend.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

func sub(dir string) fs.FS {
	s, err := fs.Sub(FS, dir)
	if err != nil {
		panic(err)
	}
	return s
}

func SQLite() fs.FS { return sub("sqlite") }

func Postgres() fs.FS { return sub("postgres") }

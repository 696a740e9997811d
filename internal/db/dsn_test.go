package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://u:p@localhost:5432/facturacion_db?sslmode=disable", "postgres://u:p@localhost:5432/facturacion_db?sslmode=disable"},
		{"  'postgres://u@h/db'  ", "postgres://u@h/db"},
		{"host=localhost user=postgres dbname=facturacion_db", "host=localhost user=postgres dbname=facturacion_db sslmode=disable"},
		{"host=localhost   user=postgres  dbname=x sslmode=require", "host=localhost user=postgres dbname=x sslmode=require"},
		{"not a dsn at all", "not a dsn at all"},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Fatalf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// import_transfers genera un script SQL con las transferencias de un extracto bancario en CSV
// (separado por ';', Latin-1 o UTF-8). Solo se importan créditos; los IDs son deterministas,
// por lo que aplicar dos veces el mismo extracto no duplica filas.
//
// Uso: go run ./cmd/import_transfers extracto.csv [salida.sql]
// Sin salida explícita escribe en stdout.
package main

import (
	"fmt"
	"io"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: import_transfers extracto.csv [salida.sql]")
		os.Exit(2)
	}
	csvPath := os.Args[1]

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir extracto: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	transfers, skipped, err := parseStatement(f, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar extracto: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "omitida %v\n", s)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		file, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}

	if err := writeSQL(out, csvPath, transfers); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d transferencias, %d filas omitidas\n", len(transfers), len(skipped))
}

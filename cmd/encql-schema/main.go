// encql-schema validates a JSON table declaration and prints the encrypt
// config descriptor the encryption engine consumes at initialization.
//
// Usage:
//
//	encql-schema tables.json
package main

import (
	"fmt"
	"os"

	"github.com/encql/encql/encql"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: encql-schema <tables.json>")
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "encql-schema: %v\n", err)
		os.Exit(1)
	}

	tables, err := encql.TablesFromJSON(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encql-schema: %v\n", err)
		os.Exit(1)
	}

	out, err := encql.ExtractJSON(tables...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encql-schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

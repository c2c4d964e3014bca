// Command legisync applies LEGI archives to a SQLite database and serves the
// ingestion status.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

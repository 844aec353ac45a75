// Command syntree is the CLI front end for the syntax tree library: it
// parses files losslessly, checks round-trip fidelity, runs pattern
// queries, applies span edits, and records its work in a local database.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

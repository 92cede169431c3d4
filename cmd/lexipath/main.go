// Command lexipath manages a vocabulary collection from the terminal.
//
// Usage:
//
//	lexipath [--config FILE] <command> [args]
//
// Commands:
//
//	import   - load a workbook, a delimited file, a shared sheet URL or the sample set
//	add      - add one word and enrich it
//	list     - print the collection as a table
//	status   - mark a word mastered or unmastered
//	enrich   - fill missing fields from the dictionary and synonym services
//	delete   - remove words by id
//	clear    - remove every word and all progress
//	export   - write the collection as xlsx or csv
//	serve    - run the HTTP API
//	version  - print build information
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

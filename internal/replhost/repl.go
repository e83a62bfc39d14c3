// Package replhost is a thin, out-of-CORE interactive host over the
// database façade's public operations: read a line, run it as a query,
// print the result. Grounded on the teacher's internal/repl/repl.go
// (bufio.Scanner line loop, tabwriter result printing), generalized from
// the teacher's row-map Result to the façade's query.Result.
package replhost

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/leengari/fltq/internal/database"
	"github.com/leengari/fltq/internal/query"
)

// Start runs an interactive read-query-print loop against db, reading
// from r and writing to w until "exit", "\q", or EOF.
func Start(r io.Reader, w io.Writer, db *database.Database) {
	scanner := bufio.NewScanner(r)
	fmt.Fprintln(w, "Welcome to fltq.")
	fmt.Fprintln(w, "Type 'exit' or '\\q' to quit.")

	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}
		if line == "exit" || line == "\\q" {
			return
		}

		result, err := db.Query(line)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		PrintResult(w, result)
	}
}

// PrintResult renders a query.Result as a tab-aligned table.
func PrintResult(w io.Writer, res *query.Result) {
	if res == nil || len(res.Columns) == 0 {
		fmt.Fprintln(w, "OK")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, col := range res.Columns {
		fmt.Fprint(tw, col)
		if i < len(res.Columns)-1 {
			fmt.Fprint(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	for i := range res.Columns {
		fmt.Fprint(tw, "---")
		if i < len(res.Columns)-1 {
			fmt.Fprint(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	for _, row := range res.Rows {
		for i, val := range row {
			if val == nil {
				fmt.Fprint(tw, "NULL")
			} else {
				fmt.Fprintf(tw, "%v", val)
			}
			if i < len(row)-1 {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

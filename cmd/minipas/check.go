package main

import (
	"fmt"
	"io"
	"os"

	"nickandperla.net/minipas/pkg/minipas"
)

// checkFiles parses each file without running it and reports OK or FAIL
// per file. It returns the exit status.
func checkFiles(w io.Writer, files []string) int {
	if len(files) == 0 {
		fmt.Fprintln(w, "Usage: minipas -check FILE [FILE...]")
		return 2
	}

	failed := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err == nil {
			_, err = minipas.Parse(string(data))
		}
		if err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s\n", f)
			fmt.Fprintf(w, "     %s\n", err)
			continue
		}
		fmt.Fprintf(w, "OK   %s\n", f)
	}

	fmt.Fprintf(w, "\n--- Summary ---\n")
	fmt.Fprintf(w, "Passed: %d\n", len(files)-failed)
	fmt.Fprintf(w, "Failed: %d\n", failed)
	fmt.Fprintf(w, "Total:  %d\n", len(files))
	if failed > 0 {
		return 1
	}
	return 0
}

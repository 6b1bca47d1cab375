// Package main provides the starmap CLI: sector imports, validation,
// route plotting, searches, and the terminal map viewer.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

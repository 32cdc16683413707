// Copyright 2025 the uart-interface authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

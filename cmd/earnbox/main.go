// Command earnbox runs the rewards ledger daemon and CLI.
package main

import "github.com/earnbox/earnbox/internal/cli"

func main() {
	cli.Execute()
}

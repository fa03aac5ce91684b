// Command texthash prints the hash used to fingerprint generation source
// text. Useful for correlating generations rows with a local copy of the
// text during debugging.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tenxcards/cards-api/internal/texthash"
)

func main() {
	if len(os.Args) > 1 {
		fmt.Println(texthash.Hash(strings.Join(os.Args[1:], " ")))
		return
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read stdin: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(texthash.Hash(string(data)))
}

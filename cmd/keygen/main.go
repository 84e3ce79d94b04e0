// AngelaMos | 2026
// main.go

// Command keygen writes the ES256 keypair the API signs access tokens
// with. Run it once before first start; the API refuses to boot without
// the key files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/angelamos/gymstack/internal/auth"
)

func main() {
	privatePath := flag.String(
		"private",
		"keys/private.pem",
		"where to write the private key",
	)
	publicPath := flag.String(
		"public",
		"keys/public.pem",
		"where to write the public key",
	)
	force := flag.Bool("force", false, "overwrite existing key files")
	flag.Parse()

	if !*force {
		if _, err := os.Stat(*privatePath); err == nil {
			fmt.Fprintf(
				os.Stderr,
				"keygen: %s already exists, use -force to overwrite\n",
				*privatePath,
			)
			os.Exit(1)
		}
	}

	if err := auth.GenerateKeyPair(*privatePath, *publicPath); err != nil {
		fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s and %s\n", *privatePath, *publicPath)
}

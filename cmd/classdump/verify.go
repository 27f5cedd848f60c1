package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"classfile/internal/bytestream"
)

// cmdVerify decodes a class file and re-encodes it, reporting whether the
// two byte sequences match. spec.md §1 normalizes on write rather than
// preserving malformed input byte-for-byte, so a mismatch on well-formed
// input is a bug, not an expected outcome.
func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	path := fs.String("class", "", "path to a .class file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("--class is required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	cf, err := readClassFile(*path)
	if err != nil {
		return err
	}

	w := bytestream.NewWriter()
	cf.Write(w)

	if bytes.Equal(w.Bytes(), data) {
		fmt.Printf("%s: round-trips byte-identical (%d bytes)\n", *path, len(data))
		return nil
	}

	fmt.Printf("%s: round-trip mismatch (%d bytes in, %d bytes out)\n", *path, len(data), len(w.Bytes()))
	os.Exit(2)
	return nil
}

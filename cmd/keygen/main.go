package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
)

// Generates the random hex keys the server expects in its environment:
// OTP_ENCRYPTION_KEY (32 bytes) and JWT_SECRET.

var (
	randRead = rand.Read
	fatalf   = log.Fatalf
	printf   = fmt.Printf
)

func generateKey(byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := randRead(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func run(byteLen int, name string) {
	if byteLen <= 0 {
		fatalf("invalid byte-len: %d (must be positive)", byteLen)
		return
	}

	key, err := generateKey(byteLen)
	if err != nil {
		fatalf("failed to generate key: %v", err)
		return
	}
	printf("%s=%s\n", name, key)
}

func main() {
	byteLen := flag.Int("byte-len", 32, "key length in bytes")
	name := flag.String("name", "OTP_ENCRYPTION_KEY", "env var name to print")
	flag.Parse()

	run(*byteLen, *name)
}

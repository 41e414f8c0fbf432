package main

import (
	"fmt"
	"log"
	"os"

	"dropmarket.backend/pkg/crypto"
)

// Prints the bcrypt hash of an operator token for ADMIN_TOKEN_HASH.
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <token>", os.Args[0])
	}

	hash, err := crypto.HashToken(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hash)
}

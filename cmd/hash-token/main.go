package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"iajuridica-backend/auth"
)

// Prints a bcrypt hash of a bearer token for use as API_BEARER_HASH.
// The token is read from the first argument or, if absent, from stdin.
func main() {
	var token string
	if len(os.Args) > 1 {
		token = os.Args[1]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read token: %v", err)
		}
		token = strings.TrimSpace(line)
	}

	if token == "" {
		log.Fatal("Token must not be empty")
	}

	hash, err := auth.HashToken(token)
	if err != nil {
		log.Fatalf("Failed to hash token: %v", err)
	}

	fmt.Println(hash)
	fmt.Fprintln(os.Stderr, "✅ Set API_BEARER_HASH to the value above")
}

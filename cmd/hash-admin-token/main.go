// Command hash-admin-token prints the bcrypt hash to put in ADMIN_TOKEN_HASH.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/playmatatu/pong-server/internal/admin"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	token := os.Getenv("ADMIN_TOKEN")
	if len(os.Args) > 1 {
		token = os.Args[1]
	}
	if token == "" {
		fmt.Fprint(os.Stderr, "Admin token: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read token: %v", err)
		}
		token = strings.TrimSpace(line)
	}
	if token == "" {
		log.Fatal("Admin token must not be empty")
	}

	hash, err := admin.HashToken(token)
	if err != nil {
		log.Fatalf("Failed to hash token: %v", err)
	}

	fmt.Printf("ADMIN_TOKEN_HASH=%s\n", hash)
}

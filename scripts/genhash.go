//go:build ignore

// Prints a bcrypt hash for the given password. Handy for seeding a local
// users table:
//
//	go run scripts/genhash.go 'pass123A!'
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <password>", os.Args[0])
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	fmt.Println(string(hash))
}

// cmd/addadmin/main.go
// Creates or updates an admin user in the database.
//
// Usage:
//
//	go run ./cmd/addadmin -username race-control -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/randomracing/fantasyapi/config"
	bundb "github.com/randomracing/fantasyapi/db"
	"github.com/randomracing/fantasyapi/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("bcrypt:", err)
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	admin := &models.Admin{
		Username: *username,
		Password: string(hash),
	}

	_, err = db.NewInsert().Model(admin).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password").
		Exec(context.Background())
	if err != nil {
		log.Fatal("insert admin:", err)
	}

	fmt.Printf("admin %q saved\n", *username)
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maplehr/maplehr/internal/auth"
	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store/postgres"
)

type output struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "", "Account email")
		name        = flag.String("name", "", "Display name")
		password    = flag.String("password", "", "Account password")
		reset       = flag.Bool("reset-password", false, "Replace the password of an existing account")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required")
		os.Exit(1)
	}
	if !*reset && *name == "" {
		fmt.Fprintln(os.Stderr, "name is required when creating an account")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := postgres.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer st.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	cred := &model.Credential{
		Email:        *email,
		PasswordHash: hash,
	}

	var user *model.User
	if *reset {
		user, err = st.GetUserByEmail(ctx, *email)
		if err != nil {
			fmt.Fprintln(os.Stderr, "lookup user:", err)
			os.Exit(1)
		}
		if err := st.SetCredential(ctx, cred); err != nil {
			fmt.Fprintln(os.Stderr, "set credential:", err)
			os.Exit(1)
		}
	} else {
		user = &model.User{
			ID:        uuid.NewString(),
			Email:     *email,
			Name:      *name,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.CreateUserWithCredential(ctx, user, cred); err != nil {
			fmt.Fprintln(os.Stderr, "create user:", err)
			os.Exit(1)
		}
	}

	out := output{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

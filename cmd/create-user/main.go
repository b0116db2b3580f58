// CLI tool to create a user with bcrypt-hashed password and default preferences.
// Usage: go run ./cmd/create-user (from the repo root)
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type newUser struct {
	Username string
	Email    string
	Password string
}

func main() {
	_ = godotenv.Load()
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DB_URL is not set (export it or add it to .env)")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)
	u := newUser{
		Username: prompt(reader, "Username: "),
		Email:    strings.ToLower(prompt(reader, "Email: ")),
		Password: prompt(reader, "Password: "),
	}
	if err := u.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	userID, token, err := createUser(ctx, conn, u)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", u.Username)
	fmt.Printf("  Auth Token: %s\n", token)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// validate applies the same rules as POST /api/register.
func (u newUser) validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if at := strings.Index(u.Email, "@"); at <= 0 || at == len(u.Email)-1 {
		return fmt.Errorf("invalid email %q", u.Email)
	}
	if len(u.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// createUser inserts the user and its default preferences row together.
func createUser(ctx context.Context, conn *pgx.Conn, u newUser) (int, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", fmt.Errorf("hash password: %w", err)
	}
	token := uuid.New().String()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.Email, string(hash), token,
	).Scan(&userID)
	if err != nil {
		return 0, "", fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO user_preferences (user_id) VALUES ($1)`, userID); err != nil {
		return 0, "", fmt.Errorf("insert preferences: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, "", fmt.Errorf("commit: %w", err)
	}
	return userID, token, nil
}

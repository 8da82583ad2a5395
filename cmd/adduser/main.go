package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"auction-house/internal/config"
	identity "auction-house/internal/identityService"
	"auction-house/internal/repository"

	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	isAdmin := fs.Bool("admin", false, "Grant staff rights")
	configPath := fs.String("config", "", "Path to config file (default configs/config.yml)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> -email <email> [-password <password>] [-admin] [-config <path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user, email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg.DBDriver == "memory" {
		return fmt.Errorf("database.driver %q does not persist users", cfg.DBDriver)
	}

	store, err := repository.NewStore(cfg.DBDriver, cfg.DBDSN, cfg.DBMaxOpenConns)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	svc := identity.NewIdentityService(store, cfg.SessionSecret, cfg.SessionTTL)
	user, _, err := svc.CreateUser(context.Background(), *username, *email, password, *isAdmin)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	role := "user"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(stdout, "User %s created successfully as %s with ID %s\n", user.Username, role, user.UserID)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

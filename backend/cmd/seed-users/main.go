// seed-users creates or resets the author accounts.
//
// Without -username it seeds everyone listed under seed_users in
// private.yaml. With -username it prompts for that author's password.
// With -hash it only prints a bcrypt hash for a client allow-list.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bacilogs/bacilogs/backend/internal/service"
	"github.com/bacilogs/bacilogs/backend/internal/setup"
	"github.com/bacilogs/bacilogs/shared/config"
	"github.com/bacilogs/bacilogs/shared/domain"
	"github.com/bacilogs/bacilogs/shared/jwt"
	"github.com/bacilogs/bacilogs/shared/logger"
	"github.com/bacilogs/bacilogs/shared/utils"
)

func main() {
	var configFolder, username string
	var hashOnly bool
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.StringVar(&username, "username", "", "seed a single author, prompting for the password")
	flag.BoolVar(&hashOnly, "hash", false, "print a bcrypt hash of a prompted password and exit")
	flag.Parse()

	if hashOnly {
		password := mustPrompt("Password: ")
		hash, err := utils.HashPassword(password)
		if err != nil {
			fail(err)
		}
		fmt.Println(hash)
		return
	}

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	storage, err := setup.NewStorage(cfg)
	if err != nil {
		fail(err)
	}
	defer storage.Cleanup()

	var creds []domain.Credentials
	if username != "" {
		creds = append(creds, domain.Credentials{Username: username, Password: mustPrompt("Password for " + username + ": ")})
	} else {
		for _, u := range cfg.SeedUsers() {
			creds = append(creds, domain.Credentials{Username: u.Username, Password: u.Password})
		}
	}
	if len(creds) == 0 {
		fail(fmt.Errorf("no users to seed: pass -username or list seed_users in private.yaml"))
	}

	auth := service.NewAuth(storage, jwt.New(cfg.JwtKey(), cfg.JwtTTL()))
	if err := auth.SeedUsers(creds); err != nil {
		fail(err)
	}
	fmt.Printf("seeded %d user(s)\n", len(creds))
}

func mustPrompt(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fail(fmt.Errorf("read password: %w", err))
	}
	password := strings.TrimSpace(string(raw))
	if password == "" {
		fail(fmt.Errorf("empty password"))
	}
	return password
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

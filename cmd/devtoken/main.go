// Command devtoken выпускает токен доступа для локальной проверки API.
// В рабочей среде токены выпускает внешний сервис идентификации.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	v1 "github.com/shenikar/field_dispatch/internal/handler/http/v1"
	"github.com/shenikar/field_dispatch/internal/models"
)

func main() {
	officer := pflag.String("officer", "", "officer id (a new one is generated when empty)")
	name := pflag.String("name", "dev", "display name")
	role := pflag.String("role", string(models.RoleOfficer), "role: officer or admin")
	ttl := pflag.Duration("ttl", 12*time.Hour, "token lifetime")
	secret := pflag.String("secret", "", "signing secret (defaults to JWT_SECRET)")
	pflag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}
	if *secret == "" {
		*secret = os.Getenv("JWT_SECRET")
	}
	if *secret == "" {
		logrus.Fatal("JWT secret is required: pass --secret or set JWT_SECRET")
	}

	id := uuid.New()
	if *officer != "" {
		parsed, err := uuid.Parse(*officer)
		if err != nil {
			logrus.Fatalf("Invalid officer id: %v", err)
		}
		id = parsed
	}

	r := models.Role(*role)
	if r != models.RoleAdmin && r != models.RoleOfficer {
		logrus.Fatalf("Unknown role %q", *role)
	}

	token, err := v1.NewAccessToken(*secret, id, *name, r, *ttl)
	if err != nil {
		logrus.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "officer_id=%s role=%s expires_in=%s\n", id, r, *ttl)
	fmt.Println(token)
}

// Command mint_token signs an HS256 service token for callers of the
// machine-to-machine endpoints, e.g. the cron job triggering reminder
// runs. The secret must match SERVICE_TOKEN_SECRET on the server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

func main() {
	var (
		secret  string
		subject string
		role    string
		ttl     time.Duration
	)

	flag.StringVar(&secret, "secret", os.Getenv("SERVICE_TOKEN_SECRET"), "HS256 signing secret")
	flag.StringVar(&subject, "subject", "cron", "Token subject")
	flag.StringVar(&role, "role", "scheduler", "Caller role claim")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if secret == "" {
		log.Fatal("missing signing secret: pass -secret or set SERVICE_TOKEN_SECRET")
	}

	now := time.Now().UTC()
	claims := models.ServiceClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}

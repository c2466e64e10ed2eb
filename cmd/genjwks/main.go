package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"Cignito/internal/api/middleware"
)

// genjwks generates the ES256 key the API uses to verify bearer tokens.
//
// Usage:
//
//	go run ./cmd/genjwks
//	go run ./cmd/genjwks -token <userID> -ttl 24h
//
// The first form prints a new JWT_PRIVATE_JWK. The second reads
// JWT_PRIVATE_JWK from the environment and mints a token for local testing.
func main() {
	userID := flag.String("token", "", "mint a bearer token for this user id using JWT_PRIVATE_JWK")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of a minted token")
	save := flag.Bool("save", false, "also write the private key to jwt-private-key.json")
	flag.Parse()

	if *userID != "" {
		mintToken(*userID, *ttl)
		return
	}

	fmt.Println("Generating ES256 keypair for bearer token signing...")

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		log.Fatalf("Failed to generate private key: %v", err)
	}

	jwkKey, err := jwk.FromRaw(privateKey)
	if err != nil {
		log.Fatalf("Failed to create JWK from private key: %v", err)
	}

	if err := jwkKey.Set(jwk.KeyIDKey, "cignito-signing-key"); err != nil {
		log.Fatalf("Failed to set kid: %v", err)
	}
	if err := jwkKey.Set(jwk.AlgorithmKey, "ES256"); err != nil {
		log.Fatalf("Failed to set alg: %v", err)
	}
	if err := jwkKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		log.Fatalf("Failed to set use: %v", err)
	}

	jsonData, err := json.Marshal(jwkKey)
	if err != nil {
		log.Fatalf("Failed to marshal JWK: %v", err)
	}

	fmt.Println("\nAdd this to your .env file:")
	fmt.Println("\nJWT_PRIVATE_JWK='" + string(jsonData) + "'")
	fmt.Println("\nKeep this key secret and generate a separate one for production.")

	if *save {
		filename := "jwt-private-key.json"
		if err := os.WriteFile(filename, jsonData, 0o600); err != nil {
			log.Fatalf("Failed to write key file: %v", err)
		}
		fmt.Printf("\nPrivate key saved to %s (remember to add to .gitignore!)\n", filename)
	}
}

func mintToken(userID string, ttl time.Duration) {
	authenticator, err := middleware.NewAuthenticator(os.Getenv("JWT_PRIVATE_JWK"), "")
	if err != nil {
		log.Fatalf("Failed to load signing key: %v", err)
	}
	token, err := authenticator.IssueToken(userID, ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}

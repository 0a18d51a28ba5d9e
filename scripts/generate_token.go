package main

import (
	"fmt"
	"log"
	"os"

	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run scripts/generate_token.go <user-id> <email> [admin]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}

	isAdmin := len(os.Args) > 3 && os.Args[3] == "admin"

	manager := auth.NewJWTManager(cfg)

	token, err := manager.GenerateAccessToken(os.Args[1], os.Args[2], isAdmin)
	if err != nil {
		log.Fatal("Error generating token:", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		log.Fatal("Token verification failed:", err)
	}

	fmt.Printf("User: %s (admin=%t)\n", claims.UserID(), claims.Admin)
	fmt.Printf("Token: %s\n", token)
	fmt.Println("✅ Token verified successfully!")
}

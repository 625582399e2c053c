package types

import (
	"os"
	"strings"
)

// ContextUserKey is where the auth middleware stores the resolved user.
const ContextUserKey = "user"

// AllowedOrigins feeds both the CORS layer and the WebSocket origin check.
var AllowedOrigins = initAllowedOrigins()

func initAllowedOrigins() []string {
	origins := []string{
		// Development front ends
		"http://localhost:3000",
		"http://localhost:5173",
	}

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL bounds how long a stolen token stays usable;
// there is no revocation list.
const DefaultAccessTokenTTL = 30 * time.Minute

var (
	jwtSecret      string
	accessTokenTTL = DefaultAccessTokenTTL
)

func InitJWTSecret() error {
	jwtSecret = os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	if minutes := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); minutes != "" {
		m, err := strconv.Atoi(minutes)
		if err != nil || m <= 0 {
			return fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES value %q", minutes)
		}
		accessTokenTTL = time.Duration(m) * time.Minute
	} else {
		accessTokenTTL = DefaultAccessTokenTTL
	}

	return nil
}

func AccessTokenTTL() time.Duration {
	return accessTokenTTL
}

// GenerateToken mints a bearer token for the given subject username.
func GenerateToken(username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifyToken checks signature and expiry and returns the subject username.
func VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return "", fmt.Errorf("Invalid or expired token")
	}

	subject, err := token.Claims.GetSubject()

	if err != nil || subject == "" {
		return "", fmt.Errorf("Token has no subject")
	}

	return subject, nil
}

package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer is stamped on issued tokens; validation does not require it.
const tokenIssuer = "orderdesk"

var (
	secretKey []byte

	ErrNoToken = errors.New("no token found")
)

func SetSecret(key string) {
	secretKey = []byte(key)
}

// Claims are the fields the console reads from an access token.
type Claims struct {
	UserID string `json:"-"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func GenerateJWT(userID, email, role string, expiry time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("jwt secret not set")
	}
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ValidateJWT accepts HMAC-signed tokens only and allows 30s of clock skew.
func ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	claims.UserID = claims.Subject
	return claims, nil
}

// ExtractClaims reads the Bearer header, falling back to the accessToken cookie.
func ExtractClaims(r *http.Request) (*Claims, error) {
	tokenString := ""
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && bearer != "" {
		tokenString = bearer
	} else if cookie, err := r.Cookie("accessToken"); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		return nil, ErrNoToken
	}
	return ValidateJWT(tokenString)
}

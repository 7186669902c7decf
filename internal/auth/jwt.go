package auth

import (
	"time"

	"saraf-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	VendorID uint   `json:"vendor_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, vendor *models.Vendor) (string, error) {
	claims := &JWTCustomClaims{
		VendorID: vendor.ID,
		Email:    vendor.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

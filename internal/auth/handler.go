package auth

import (
	"strings"

	"saraf-backend/internal/config"
	"saraf-backend/internal/database"
	"saraf-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	ShopName string `json:"shopName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Name == "" || body.ShopName == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name, shopName, email and password are required")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
		}

		var count int64
		database.DB.Model(&models.Vendor{}).
			Where("email = ?", body.Email).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "a vendor with this email already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		vendor := models.Vendor{
			Name:         body.Name,
			ShopName:     body.ShopName,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
		}

		if err := database.DB.Create(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create vendor")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       vendor.ID,
			"shopName": vendor.ShopName,
			"email":    vendor.Email,
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var vendor models.Vendor
		if err := database.DB.Where("email = ?", body.Email).First(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "email or password is incorrect")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "email or password is incorrect")
		}

		token, err := GenerateToken(cfg.JWTSecret, &vendor)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not generate token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"vendor": fiber.Map{
				"id":       vendor.ID,
				"name":     vendor.Name,
				"shopName": vendor.ShopName,
				"email":    vendor.Email,
			},
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := VendorID(c)
		if err != nil {
			return err
		}

		var vendor models.Vendor
		if err := database.DB.First(&vendor, vendorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "vendor not found")
		}

		return c.JSON(fiber.Map{
			"id":       vendor.ID,
			"name":     vendor.Name,
			"shopName": vendor.ShopName,
			"email":    vendor.Email,
			"phone":    vendor.Phone,
		})
	}
}

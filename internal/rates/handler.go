package rates

import (
	"errors"

	"saraf-backend/internal/apperr"
	"saraf-backend/internal/auth"
	"saraf-backend/internal/database"
	"saraf-backend/internal/models"
	"saraf-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SetRateRequest struct {
	MetalType   string   `json:"metalType" validate:"required,oneof=gold silver others"`
	RatePerGram *float64 `json:"ratePerGram" validate:"required,gt=0"`
}

// GET /api/rates
func ListRatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		var rates []models.MetalRate
		if err := database.DB.
			Where("vendor_id = ?", vendorID).
			Order("metal_type ASC").
			Find(&rates).Error; err != nil {
			return apperr.Internal("could not list rates")
		}
		return c.JSON(fiber.Map{"rates": rates})
	}
}

// POST /api/rates — upsert by metal type, one row per metal per vendor.
func SetRateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		var body SetRateRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Invalid("", "invalid request body")
		}
		if verr := validation.Check(body); verr != nil {
			return verr
		}

		var rate models.MetalRate
		err = database.DB.
			Where("vendor_id = ? AND metal_type = ?", vendorID, body.MetalType).
			First(&rate).Error
		switch {
		case err == nil:
			rate.RatePerGram = *body.RatePerGram
			if err := database.DB.Save(&rate).Error; err != nil {
				return apperr.Internal("could not update rate")
			}
			return c.JSON(rate)
		case errors.Is(err, gorm.ErrRecordNotFound):
			rate = models.MetalRate{
				VendorID:    vendorID,
				MetalType:   models.MetalType(body.MetalType),
				RatePerGram: *body.RatePerGram,
			}
			if err := database.DB.Create(&rate).Error; err != nil {
				return apperr.Internal("could not create rate")
			}
			return c.Status(fiber.StatusCreated).JSON(rate)
		default:
			return apperr.Internal("could not load rate")
		}
	}
}

// DELETE /api/rates/:id
func DeleteRateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("rate not found")
		}

		res := database.DB.Where("vendor_id = ?", vendorID).Delete(&models.MetalRate{}, id)
		if res.Error != nil {
			return apperr.Internal("could not delete rate")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("rate not found")
		}
		return c.JSON(fiber.Map{"message": "rate deleted", "id": id})
	}
}

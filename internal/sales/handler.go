package sales

import (
	"errors"

	"saraf-backend/internal/apperr"
	"saraf-backend/internal/audit"
	"saraf-backend/internal/auth"
	"saraf-backend/internal/database"
	"saraf-backend/internal/models"
	"saraf-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateTransactionRequest struct {
	CustomerName  string   `json:"customerName" validate:"required"`
	CustomerPhone string   `json:"customerPhone"`
	TradeType     string   `json:"tradeType" validate:"required,oneof=buy sell"`
	ItemID        *uint    `json:"itemId"`
	MetalType     string   `json:"metalType" validate:"omitempty,oneof=gold silver others"`
	Grams         *float64 `json:"grams" validate:"omitempty,gte=0"`
	Amount        *float64 `json:"amount" validate:"required,gt=0"`
	Description   string   `json:"description"`
}

// POST /api/transactions
// A sell takes an active stock item off the shelf; a buy records raw
// jewellery coming over the counter.
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Invalid("", "invalid request body")
		}
		if verr := validation.Check(body); verr != nil {
			return verr
		}

		txn := models.CustomerTransaction{
			VendorID:      vendorID,
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			TradeType:     models.TradeType(body.TradeType),
			MetalType:     models.MetalType(body.MetalType),
			Amount:        *body.Amount,
			Description:   body.Description,
		}
		if body.Grams != nil {
			txn.Grams = *body.Grams
		}

		dbErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if txn.TradeType == models.TradeSell {
				if body.ItemID == nil {
					return apperr.Invalid("itemId", "itemId is required for a sell transaction")
				}

				var item models.InventoryItem
				if err := tx.Where("vendor_id = ?", vendorID).First(&item, *body.ItemID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperr.NotFound("item not found")
					}
					return err
				}
				if !item.IsActive {
					return apperr.Conflict("itemId", "item is already sold or deactivated")
				}

				txn.ItemID = &item.ID
				txn.MetalType = item.MetalType
				if txn.Grams == 0 {
					txn.Grams = item.NetWeight
				}

				if err := tx.Model(&item).Update("is_active", false).Error; err != nil {
					return err
				}
			} else {
				if !txn.MetalType.Valid() {
					return apperr.Invalid("metalType", "metalType is required for a buy transaction")
				}
			}

			return tx.Create(&txn).Error
		})
		if dbErr != nil {
			var ae *apperr.Error
			if errors.As(dbErr, &ae) {
				return ae
			}
			return apperr.Internal("could not create transaction")
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "customer_transaction",
			EntityID:    txn.ID,
			Action:      models.AuditActionCreate,
			Description: string(txn.TradeType) + " with " + txn.CustomerName,
			After:       txn,
		})

		return c.Status(fiber.StatusCreated).JSON(txn)
	}
}

// GET /api/transactions?tradeType=sell
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Where("vendor_id = ?", vendorID)
		if tt := c.Query("tradeType"); tt != "" {
			if tt != string(models.TradeBuy) && tt != string(models.TradeSell) {
				return apperr.Invalid("tradeType", "tradeType must be 'buy' or 'sell'")
			}
			dbq = dbq.Where("trade_type = ?", tt)
		}

		var txns []models.CustomerTransaction
		if err := dbq.Order("created_at DESC, id DESC").Find(&txns).Error; err != nil {
			return apperr.Internal("could not list transactions")
		}
		return c.JSON(fiber.Map{"transactions": txns, "count": len(txns)})
	}
}

// GET /api/transactions/:id
func GetTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("transaction not found")
		}

		var txn models.CustomerTransaction
		if err := database.DB.Where("vendor_id = ?", vendorID).First(&txn, id).Error; err != nil {
			return apperr.NotFound("transaction not found")
		}
		return c.JSON(txn)
	}
}

// DELETE /api/transactions/:id — undoing a sell puts the item back on
// the shelf.
func DeleteTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("transaction not found")
		}

		var txn models.CustomerTransaction
		if err := database.DB.Where("vendor_id = ?", vendorID).First(&txn, id).Error; err != nil {
			return apperr.NotFound("transaction not found")
		}

		dbErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.CustomerTransaction{}, txn.ID).Error; err != nil {
				return err
			}
			if txn.TradeType == models.TradeSell && txn.ItemID != nil {
				return tx.Model(&models.InventoryItem{}).
					Where("id = ? AND vendor_id = ?", *txn.ItemID, vendorID).
					Update("is_active", true).Error
			}
			return nil
		})
		if dbErr != nil {
			return apperr.Internal("could not delete transaction")
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "customer_transaction",
			EntityID:    txn.ID,
			Action:      models.AuditActionDelete,
			Description: string(txn.TradeType) + " with " + txn.CustomerName,
			Before:      txn,
		})

		return c.JSON(fiber.Map{"message": "transaction deleted", "id": txn.ID})
	}
}

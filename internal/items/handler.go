package items

import (
	"fmt"
	"regexp"

	"saraf-backend/internal/apperr"
	"saraf-backend/internal/audit"
	"saraf-backend/internal/auth"
	"saraf-backend/internal/database"
	"saraf-backend/internal/models"
	"saraf-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var huidPattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

type CreateItemRequest struct {
	JewelleryName string   `json:"jewelleryName" validate:"required"`
	MetalType     string   `json:"metalType" validate:"required,oneof=gold silver others"`
	Subtype       string   `json:"subtype" validate:"required"`
	GrossWeight   *float64 `json:"grossWeight" validate:"required,gte=0"`
	NetWeight     *float64 `json:"netWeight" validate:"required,gte=0"`
	Purity        string   `json:"purity" validate:"required"`
	LabourCharge  *float64 `json:"labourCharge" validate:"required,gte=0"`
	Balance       string   `json:"balance"`
	HUIDNo        string   `json:"huidNo" validate:"omitempty,alphanum,len=6"`
	KaratCarat    string   `json:"karatCarat"`
}

type UpdateItemRequest struct {
	JewelleryName *string  `json:"jewelleryName"`
	Subtype       *string  `json:"subtype"`
	GrossWeight   *float64 `json:"grossWeight" validate:"omitempty,gte=0"`
	NetWeight     *float64 `json:"netWeight" validate:"omitempty,gte=0"`
	Purity        *string  `json:"purity"`
	LabourCharge  *float64 `json:"labourCharge" validate:"omitempty,gte=0"`
	Balance       *string  `json:"balance"`
	HUIDNo        *string  `json:"huidNo"`
	KaratCarat    *string  `json:"karatCarat"`
}

// checkIdentity applies the metal identity rule used across the app:
// gold carries a unique 6-char HUID, silver/others carry karatCarat.
func checkIdentity(metal models.MetalType, huid, karat string, excludeID uint) (string, string, *apperr.Error) {
	if metal == models.MetalGold {
		if huid == "" {
			return "", "", apperr.Invalid("huidNo", "huidNo is required for gold items")
		}
		if !huidPattern.MatchString(huid) {
			return "", "", apperr.Invalid("huidNo", "huidNo must be exactly 6 alphanumeric characters")
		}
		var count int64
		q := database.DB.Model(&models.InventoryItem{}).
			Where("metal_type = ? AND huid_no = ?", models.MetalGold, huid)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return "", "", apperr.Internal("could not check HUID uniqueness")
		}
		if count > 0 {
			return "", "", apperr.Conflict("huidNo", "an item with this HUID already exists")
		}
		return huid, "", nil
	}

	if karat == "" {
		return "", "", apperr.Invalid("karatCarat", fmt.Sprintf("karatCarat is required for %s items", metal))
	}
	return "", karat, nil
}

// GET /api/items?metalType=gold
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.
			Where("vendor_id = ? AND is_active = ?", vendorID, true)
		if metal := c.Query("metalType"); metal != "" {
			if !models.MetalType(metal).Valid() {
				return apperr.Invalid("metalType", "metalType must be one of: gold silver others")
			}
			dbq = dbq.Where("metal_type = ?", metal)
		}

		var items []models.InventoryItem
		if err := dbq.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
			return apperr.Internal("could not list items")
		}
		return c.JSON(fiber.Map{"items": items, "count": len(items)})
	}
}

// GET /api/items/:id
func GetItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("item not found")
		}

		var item models.InventoryItem
		if err := database.DB.Where("vendor_id = ?", vendorID).First(&item, id).Error; err != nil {
			return apperr.NotFound("item not found")
		}
		return c.JSON(item)
	}
}

// POST /api/items — manual stock entry, outside the karagir workflow.
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Invalid("", "invalid request body")
		}
		if verr := validation.Check(body); verr != nil {
			return verr
		}

		metal := models.MetalType(body.MetalType)
		if !models.ValidSubtype(metal, body.Subtype) {
			return apperr.Invalid("subtype", fmt.Sprintf("invalid subtype for %s", metal))
		}
		huid, karat, aerr := checkIdentity(metal, body.HUIDNo, body.KaratCarat, 0)
		if aerr != nil {
			return aerr
		}

		balance := body.Balance
		if balance == "" {
			balance = "0"
		}

		item := models.InventoryItem{
			VendorID:      vendorID,
			JewelleryName: body.JewelleryName,
			MetalType:     metal,
			Subtype:       body.Subtype,
			GrossWeight:   *body.GrossWeight,
			NetWeight:     *body.NetWeight,
			Purity:        body.Purity,
			LabourCharge:  *body.LabourCharge,
			Balance:       balance,
			HUIDNo:        huid,
			KaratCarat:    karat,
			SourceType:    models.SourceManual,
			IsActive:      true,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return apperr.Internal("could not create item")
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: "manual item " + item.JewelleryName,
			After:       item,
		})

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /api/items/:id — jewellery fields only; vendor, source and the
// metal type of an existing item stay as they are.
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("item not found")
		}

		var item models.InventoryItem
		if err := database.DB.Where("vendor_id = ?", vendorID).First(&item, id).Error; err != nil {
			return apperr.NotFound("item not found")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Invalid("", "invalid request body")
		}
		if verr := validation.Check(body); verr != nil {
			return verr
		}

		huid := item.HUIDNo
		if body.HUIDNo != nil {
			huid = *body.HUIDNo
		}
		karat := item.KaratCarat
		if body.KaratCarat != nil {
			karat = *body.KaratCarat
		}
		huid, karat, aerr := checkIdentity(item.MetalType, huid, karat, item.ID)
		if aerr != nil {
			return aerr
		}

		before := item

		if body.JewelleryName != nil {
			item.JewelleryName = *body.JewelleryName
		}
		if body.Subtype != nil {
			if !models.ValidSubtype(item.MetalType, *body.Subtype) {
				return apperr.Invalid("subtype", fmt.Sprintf("invalid subtype for %s", item.MetalType))
			}
			item.Subtype = *body.Subtype
		}
		if body.GrossWeight != nil {
			item.GrossWeight = *body.GrossWeight
		}
		if body.NetWeight != nil {
			item.NetWeight = *body.NetWeight
		}
		if body.Purity != nil {
			item.Purity = *body.Purity
		}
		if body.LabourCharge != nil {
			item.LabourCharge = *body.LabourCharge
		}
		if body.Balance != nil {
			item.Balance = *body.Balance
		}
		item.HUIDNo = huid
		item.KaratCarat = karat

		if err := database.DB.Save(&item).Error; err != nil {
			return apperr.Internal("could not update item")
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionUpdate,
			Description: "item " + item.JewelleryName,
			Before:      before,
			After:       item,
		})

		return c.JSON(item)
	}
}

// DELETE /api/items/:id — soft delete; the sale workflow reads isActive.
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("item not found")
		}

		var item models.InventoryItem
		if err := database.DB.Where("vendor_id = ?", vendorID).First(&item, id).Error; err != nil {
			return apperr.NotFound("item not found")
		}

		if err := database.DB.Model(&item).Update("is_active", false).Error; err != nil {
			return apperr.Internal("could not delete item")
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionDelete,
			Description: "item " + item.JewelleryName + " deactivated",
			Before:      item,
		})

		return c.JSON(fiber.Map{"message": "item deactivated", "id": item.ID})
	}
}

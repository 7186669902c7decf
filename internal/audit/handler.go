package audit

import (
	"strconv"

	"saraf-backend/internal/auth"
	"saraf-backend/internal/database"
	"saraf-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entityType=ledger_entry&entityId=1
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.AuditLog{}).Where("vendor_id = ?", vendorID)

		if entityType := c.Query("entityType"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entityId"); entityIDStr != "" {
			if entityID, err := strconv.Atoi(entityIDStr); err == nil && entityID > 0 {
				dbq = dbq.Where("entity_id = ?", entityID)
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC, id DESC").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list audit logs")
		}

		return c.JSON(fiber.Map{"logs": logs, "count": len(logs)})
	}
}

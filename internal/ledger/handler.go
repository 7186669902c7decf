package ledger

import (
	"saraf-backend/internal/apperr"
	"saraf-backend/internal/audit"
	"saraf-backend/internal/auth"
	"saraf-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// entryTypeProbe pulls entryType out of the body before the payload is
// bound; every other ledger field is dispatched on it.
type entryTypeProbe struct {
	EntryType string `json:"entryType"`
}

// GET /api/ledger
func ListEntriesHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		entries, err := engine.List(vendorID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"entries": entries, "count": len(entries)})
	}
}

// GET /api/ledger/pending-out?karagirName=&metalType=
func PendingOutHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		count, err := engine.PendingOut(vendorID, c.Query("karagirName"), models.MetalType(c.Query("metalType")))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"hasPending": count > 0, "count": count})
	}
}

// GET /api/ledger/:id
func GetEntryHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("ledger entry not found")
		}

		entry, err := engine.Get(vendorID, uint(id))
		if err != nil {
			return err
		}
		return c.JSON(entry)
	}
}

// POST /api/ledger
func CreateEntryHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		var probe entryTypeProbe
		if err := c.BodyParser(&probe); err != nil {
			return apperr.Invalid("", "invalid request body")
		}

		var entry *models.LedgerEntry
		switch models.EntryType(probe.EntryType) {
		case models.EntryOut:
			var p OutPayload
			if err := c.BodyParser(&p); err != nil {
				return apperr.Invalid("", "invalid request body")
			}
			entry, err = engine.CreateOut(vendorID, p)
		case models.EntryIn:
			var p InPayload
			if err := c.BodyParser(&p); err != nil {
				return apperr.Invalid("", "invalid request body")
			}
			entry, err = engine.CreateIn(vendorID, p)
		default:
			return apperr.Invalid("entryType", "entryType must be 'out' or 'in'")
		}
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "ledger_entry",
			EntityID:    entry.ID,
			Action:      models.AuditActionCreate,
			Description: string(entry.EntryType) + " entry for " + entry.KaragirName,
			After:       entry,
		})

		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// PUT /api/ledger/:id
func UpdateEntryHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("ledger entry not found")
		}

		existing, err := engine.Get(vendorID, uint(id))
		if err != nil {
			return err
		}
		before := *existing

		// The patch shape depends on the stored entry type; fields of the
		// other type are not bound and silently dropped.
		var updated *models.LedgerEntry
		if existing.EntryType == models.EntryOut {
			var p OutPatch
			if err := c.BodyParser(&p); err != nil {
				return apperr.Invalid("", "invalid request body")
			}
			updated, err = engine.UpdateOut(existing, p)
		} else {
			var p InPatch
			if err := c.BodyParser(&p); err != nil {
				return apperr.Invalid("", "invalid request body")
			}
			updated, err = engine.UpdateIn(existing, p)
		}
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "ledger_entry",
			EntityID:    updated.ID,
			Action:      models.AuditActionUpdate,
			Description: string(updated.EntryType) + " entry for " + updated.KaragirName,
			Before:      before,
			After:       updated,
		})

		return c.JSON(updated)
	}
}

// DELETE /api/ledger/:id
func DeleteEntryHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.NotFound("ledger entry not found")
		}

		entry, err := engine.DeleteEntry(vendorID, uint(id))
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "ledger_entry",
			EntityID:    entry.ID,
			Action:      models.AuditActionDelete,
			Description: string(entry.EntryType) + " entry for " + entry.KaragirName,
			Before:      entry,
		})

		return c.JSON(fiber.Map{"message": "ledger entry deleted", "id": entry.ID})
	}
}

// DELETE /api/ledger
func DeleteAllEntriesHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID, err := auth.VendorID(c)
		if err != nil {
			return err
		}

		deleted, err := engine.DeleteAll(vendorID)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			VendorID:    vendorID,
			EntityType:  "ledger_entry",
			Action:      models.AuditActionDelete,
			Description: "ledger wiped",
		})

		return c.JSON(fiber.Map{"deletedCount": deleted})
	}
}

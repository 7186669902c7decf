package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"saraf-backend/internal/apperr"
	"saraf-backend/internal/logger"
	"saraf-backend/internal/models"
	"saraf-backend/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HUID: hallmark id, exactly 6 alphanumeric characters.
var huidPattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// Engine keeps the ledger store and the item store consistent: an "in"
// entry creates its inventory item and completes the oldest matching
// pending "out" entry; deleting it undoes both.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

func normalizeKaragir(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// identityFields resolves the metal-specific identity field: gold items
// carry a globally unique HUID, everything else carries karat/carat.
// excludeItemID skips the caller's own inventory item on the uniqueness
// check (update path).
func (e *Engine) identityFields(metal models.MetalType, huid, karat string, excludeItemID uint) (string, string, *apperr.Error) {
	if metal == models.MetalGold {
		if huid == "" {
			return "", "", apperr.Invalid("huidNo", "huidNo is required for gold entries")
		}
		if !huidPattern.MatchString(huid) {
			return "", "", apperr.Invalid("huidNo", "huidNo must be exactly 6 alphanumeric characters")
		}
		var count int64
		q := e.db.Model(&models.InventoryItem{}).
			Where("metal_type = ? AND huid_no = ?", models.MetalGold, huid)
		if excludeItemID != 0 {
			q = q.Where("id <> ?", excludeItemID)
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
		return "", "", apperr.Invalid("karatCarat", fmt.Sprintf("karatCarat is required for %s entries", metal))
	}
	return "", karat, nil
}

// CreateOut records raw material handed to a karagir. The entry starts
// pending and stays so until an in entry reconciles it.
func (e *Engine) CreateOut(vendorID uint, p OutPayload) (*models.LedgerEntry, error) {
	if verr := validation.Check(p); verr != nil {
		return nil, verr
	}

	entry := &models.LedgerEntry{
		VendorID:      vendorID,
		KaragirName:   normalizeKaragir(p.KaragirName),
		MetalType:     models.MetalType(p.MetalType),
		EntryType:     models.EntryOut,
		Status:        models.StatusPending,
		TransactionID: uuid.NewString(),
		GramsGiven:    p.GramsGiven.Float(),
		PurityGiven:   p.PurityGiven,
	}

	if err := e.db.Create(entry).Error; err != nil {
		logger.L.WithError(err).Error("could not persist out entry")
		return nil, apperr.Internal("could not create ledger entry")
	}
	return entry, nil
}

// CreateIn records finished jewellery coming back. It creates the
// inventory item and the ledger entry in one transaction, and if a
// pending out entry matches {vendor, karagir, metal} the oldest one is
// marked completed and cross-linked. A missing match does not block the
// entry; the UI is expected to warn about it (see PendingOut).
func (e *Engine) CreateIn(vendorID uint, p InPayload) (*models.LedgerEntry, error) {
	if verr := validation.Check(p); verr != nil {
		return nil, verr
	}

	metal := models.MetalType(p.MetalType)
	if !models.ValidSubtype(metal, p.Subtype) {
		return nil, apperr.Invalid("subtype", fmt.Sprintf("invalid subtype for %s", metal))
	}

	huid, karat, aerr := e.identityFields(metal, p.HUIDNo, p.KaratCarat, 0)
	if aerr != nil {
		return nil, aerr
	}

	karagir := normalizeKaragir(p.KaragirName)
	balance := p.Balance
	if balance == "" {
		balance = "0"
	}

	var entry *models.LedgerEntry
	err := e.db.Transaction(func(tx *gorm.DB) error {
		item := &models.InventoryItem{
			VendorID:      vendorID,
			JewelleryName: p.JewelleryName,
			MetalType:     metal,
			Subtype:       p.Subtype,
			GrossWeight:   *p.GrossWeight.Float(),
			NetWeight:     *p.NetWeight.Float(),
			Purity:        p.PurityReceived,
			LabourCharge:  *p.LabourCharge.Float(),
			Balance:       balance,
			HUIDNo:        huid,
			KaratCarat:    karat,
			SourceType:    models.SourceKaragir,
			IsActive:      true,
		}
		// Item first: a failed item write must abort before any ledger row exists.
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		entry = &models.LedgerEntry{
			VendorID:       vendorID,
			KaragirName:    karagir,
			MetalType:      metal,
			EntryType:      models.EntryIn,
			Status:         models.StatusCompleted,
			TransactionID:  uuid.NewString(),
			JewelleryName:  p.JewelleryName,
			Subtype:        p.Subtype,
			HUIDNo:         huid,
			KaratCarat:     karat,
			GrossWeight:    p.GrossWeight.Float(),
			NetWeight:      p.NetWeight.Float(),
			PurityReceived: p.PurityReceived,
			LabourCharge:   p.LabourCharge.Float(),
			Balance:        balance,
			LinkedItemID:   &item.ID,
		}

		var out models.LedgerEntry
		ferr := tx.
			Where("vendor_id = ? AND karagir_name = ? AND metal_type = ? AND entry_type = ? AND status = ?",
				vendorID, karagir, metal, models.EntryOut, models.StatusPending).
			Order("created_at ASC, id ASC").
			First(&out).Error
		switch {
		case ferr == nil:
			entry.CompletesOutEntryID = &out.ID
		case errors.Is(ferr, gorm.ErrRecordNotFound):
			// no pending out for this karagir/metal; accepted anyway
		default:
			return ferr
		}

		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		if entry.CompletesOutEntryID != nil {
			if err := tx.Model(&models.LedgerEntry{}).
				Where("id = ?", out.ID).
				Update("status", models.StatusCompleted).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.L.WithError(err).Error("in entry creation failed, transaction rolled back")
		return nil, apperr.Internal("could not create ledger entry")
	}
	return entry, nil
}

// Get fetches a single entry scoped to the vendor.
func (e *Engine) Get(vendorID, id uint) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := e.db.Where("vendor_id = ?", vendorID).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ledger entry not found")
		}
		return nil, apperr.Internal("could not load ledger entry")
	}
	return &entry, nil
}

// List returns the vendor's entries, newest first.
func (e *Engine) List(vendorID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := e.db.
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperr.Internal("could not list ledger entries")
	}
	return entries, nil
}

// PendingOut counts pending out entries for {vendor, karagir, metal}.
// Advisory only: the UI shows a warning when an in entry is about to be
// submitted without a matching out.
func (e *Engine) PendingOut(vendorID uint, karagirName string, metal models.MetalType) (int64, error) {
	if strings.TrimSpace(karagirName) == "" {
		return 0, apperr.Invalid("karagirName", "karagirName is required")
	}
	if !metal.Valid() {
		return 0, apperr.Invalid("metalType", "metalType must be one of: gold silver others")
	}

	var count int64
	err := e.db.Model(&models.LedgerEntry{}).
		Where("vendor_id = ? AND karagir_name = ? AND metal_type = ? AND entry_type = ? AND status = ?",
			vendorID, normalizeKaragir(karagirName), metal, models.EntryOut, models.StatusPending).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Internal("could not count pending out entries")
	}
	return count, nil
}

// UpdateOut patches an out entry. In-only fields, status and the
// immutable fields never reach this code path (see OutPatch).
func (e *Engine) UpdateOut(entry *models.LedgerEntry, p OutPatch) (*models.LedgerEntry, error) {
	if verr := validation.Check(p); verr != nil {
		return nil, verr
	}

	if p.KaragirName != nil {
		entry.KaragirName = normalizeKaragir(*p.KaragirName)
	}
	if p.MetalType != nil {
		entry.MetalType = models.MetalType(*p.MetalType)
	}
	if p.GramsGiven != nil {
		entry.GramsGiven = p.GramsGiven.Float()
	}
	if p.PurityGiven != nil {
		entry.PurityGiven = *p.PurityGiven
	}

	if err := e.db.Save(entry).Error; err != nil {
		logger.L.WithError(err).Error("could not update out entry")
		return nil, apperr.Internal("could not update ledger entry")
	}
	return entry, nil
}

// UpdateIn patches an in entry and mirrors the merged jewellery fields
// onto the linked inventory item, re-validating the metal identity field
// against the effective metal type.
func (e *Engine) UpdateIn(entry *models.LedgerEntry, p InPatch) (*models.LedgerEntry, error) {
	if verr := validation.Check(p); verr != nil {
		return nil, verr
	}

	metal := entry.MetalType
	if p.MetalType != nil {
		metal = models.MetalType(*p.MetalType)
	}

	subtype := entry.Subtype
	if p.Subtype != nil {
		subtype = *p.Subtype
	}
	if !models.ValidSubtype(metal, subtype) {
		return nil, apperr.Invalid("subtype", fmt.Sprintf("invalid subtype for %s", metal))
	}

	huid := entry.HUIDNo
	if p.HUIDNo != nil {
		huid = *p.HUIDNo
	}
	karat := entry.KaratCarat
	if p.KaratCarat != nil {
		karat = *p.KaratCarat
	}
	var excludeItem uint
	if entry.LinkedItemID != nil {
		excludeItem = *entry.LinkedItemID
	}
	huid, karat, aerr := e.identityFields(metal, huid, karat, excludeItem)
	if aerr != nil {
		return nil, aerr
	}

	if p.KaragirName != nil {
		entry.KaragirName = normalizeKaragir(*p.KaragirName)
	}
	entry.MetalType = metal
	entry.Subtype = subtype
	entry.HUIDNo = huid
	entry.KaratCarat = karat
	if p.JewelleryName != nil {
		entry.JewelleryName = *p.JewelleryName
	}
	if p.GrossWeight != nil {
		entry.GrossWeight = p.GrossWeight.Float()
	}
	if p.NetWeight != nil {
		entry.NetWeight = p.NetWeight.Float()
	}
	if p.PurityReceived != nil {
		entry.PurityReceived = *p.PurityReceived
	}
	if p.LabourCharge != nil {
		entry.LabourCharge = p.LabourCharge.Float()
	}
	if p.Balance != nil {
		entry.Balance = *p.Balance
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		if entry.LinkedItemID == nil {
			return nil
		}
		return tx.Model(&models.InventoryItem{}).
			Where("id = ? AND vendor_id = ?", *entry.LinkedItemID, entry.VendorID).
			Updates(map[string]any{
				"jewellery_name": entry.JewelleryName,
				"metal_type":     entry.MetalType,
				"subtype":        entry.Subtype,
				"gross_weight":   entry.GrossWeight,
				"net_weight":     entry.NetWeight,
				"purity":         entry.PurityReceived,
				"labour_charge":  entry.LabourCharge,
				"balance":        entry.Balance,
				"huid_no":        entry.HUIDNo,
				"karat_carat":    entry.KaratCarat,
			}).Error
	})
	if err != nil {
		logger.L.WithError(err).Error("in entry update failed, transaction rolled back")
		return nil, apperr.Internal("could not update ledger entry")
	}
	return entry, nil
}

// DeleteEntry removes an entry and unwinds its side effects: an in entry
// takes its inventory item with it and reopens the out entry it had
// completed; an out entry clears any stale back-reference pointing at it.
func (e *Engine) DeleteEntry(vendorID, id uint) (*models.LedgerEntry, error) {
	entry, err := e.Get(vendorID, id)
	if err != nil {
		return nil, err
	}

	txErr := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.LedgerEntry{}, entry.ID).Error; err != nil {
			return err
		}

		if entry.EntryType == models.EntryIn {
			if entry.LinkedItemID != nil {
				res := tx.Where("vendor_id = ?", entry.VendorID).
					Delete(&models.InventoryItem{}, *entry.LinkedItemID)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					logger.L.WithField("itemId", *entry.LinkedItemID).
						Warn("linked inventory item already gone, continuing delete")
				}
			}
			if entry.CompletesOutEntryID != nil {
				if err := tx.Model(&models.LedgerEntry{}).
					Where("id = ? AND vendor_id = ? AND entry_type = ?",
						*entry.CompletesOutEntryID, entry.VendorID, models.EntryOut).
					Update("status", models.StatusPending).Error; err != nil {
					return err
				}
			}
			return nil
		}

		// Out entry: null out back-references held by in entries so they
		// do not dangle.
		return tx.Model(&models.LedgerEntry{}).
			Where("vendor_id = ? AND completes_out_entry_id = ?", entry.VendorID, entry.ID).
			Update("completes_out_entry_id", nil).Error
	})
	if txErr != nil {
		logger.L.WithError(txErr).Error("entry delete failed, transaction rolled back")
		return nil, apperr.Internal("could not delete ledger entry")
	}
	return entry, nil
}

// DeleteAll wipes the vendor's ledger: linked inventory items first,
// then every entry. Returns the number of ledger entries removed.
func (e *Engine) DeleteAll(vendorID uint) (int64, error) {
	var deleted int64
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Model(&models.LedgerEntry{}).
			Where("vendor_id = ? AND entry_type = ? AND linked_item_id IS NOT NULL", vendorID, models.EntryIn).
			Pluck("linked_item_id", &itemIDs).Error; err != nil {
			return err
		}

		if len(itemIDs) > 0 {
			if err := tx.Where("vendor_id = ? AND id IN ?", vendorID, itemIDs).
				Delete(&models.InventoryItem{}).Error; err != nil {
				return err
			}
		}

		res := tx.Where("vendor_id = ?", vendorID).Delete(&models.LedgerEntry{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		logger.L.WithError(err).Error("ledger wipe failed, transaction rolled back")
		return 0, apperr.Internal("could not delete ledger entries")
	}
	return deleted, nil
}

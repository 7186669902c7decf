package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"saraf-backend/internal/config"
	"saraf-backend/internal/database"
	"saraf-backend/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTPPort:    "0",
		JWTSecret:   strings.Repeat("s", 32),
		CORSOrigins: "http://localhost:5173",
		LogLevel:    "error",
	}
}

// setupApp boots the full HTTP surface against an in-memory database and
// returns a bearer token for a freshly registered vendor.
func setupApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	app := server.New(testConfig())

	resp, _ := doJSON(t, app, "POST", "/api/auth/register", "", fiber.Map{
		"name":     "Ramesh",
		"shopName": "Ramesh Jewellers",
		"email":    "ramesh@example.com",
		"password": "supersecret1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email":    "ramesh@example.com",
		"password": "supersecret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("no token in login response")
	}

	return app, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var body map[string]any
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		_ = json.Unmarshal(data, &body)
	}
	return resp, body
}

func TestLedgerRequiresAuth(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/ledger", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestOutThenInReconciliationOverHTTP(t *testing.T) {
	app, token := setupApp(t)

	resp, out := doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType":   "out",
		"karagirName": "Ravi",
		"metalType":   "gold",
		"gramsGiven":  10,
		"purityGiven": "24k",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("out create status = %d (%v)", resp.StatusCode, out)
	}
	if out["status"] != "pending" {
		t.Fatalf("out status = %v", out["status"])
	}
	outID := out["id"].(float64)

	resp, pending := doJSON(t, app, "GET", "/api/ledger/pending-out?karagirName=RAVI&metalType=gold", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pending-out status = %d", resp.StatusCode)
	}
	if pending["hasPending"] != true || pending["count"].(float64) != 1 {
		t.Fatalf("pending-out body = %v", pending)
	}

	resp, in := doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType":      "in",
		"karagirName":    "ravi",
		"metalType":      "gold",
		"jewelleryName":  "ring",
		"subtype":        "regular gold jewellery",
		"huidNo":         "AB12CD",
		"grossWeight":    5,
		"netWeight":      "4.8", // numeric strings are accepted
		"purityReceived": "22k",
		"labourCharge":   100,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("in create status = %d (%v)", resp.StatusCode, in)
	}
	if in["status"] != "completed" {
		t.Fatalf("in status = %v", in["status"])
	}
	if in["completesOutEntry"].(float64) != outID {
		t.Fatalf("completesOutEntry = %v, want %v", in["completesOutEntry"], outID)
	}
	if in["linkedItemId"] == nil {
		t.Fatal("no linked item id")
	}

	resp, got := doJSON(t, app, "GET", "/api/ledger/"+itoa(outID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get out status = %d", resp.StatusCode)
	}
	if got["status"] != "completed" {
		t.Fatalf("out entry not completed: %v", got["status"])
	}

	// The generated item shows up in stock.
	resp, itemsBody := doJSON(t, app, "GET", "/api/items?metalType=gold", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("items status = %d", resp.StatusCode)
	}
	if itemsBody["count"].(float64) != 1 {
		t.Fatalf("items count = %v", itemsBody["count"])
	}
}

func TestOutPatchIgnoresInOnlyFields(t *testing.T) {
	app, token := setupApp(t)

	_, out := doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType":   "out",
		"karagirName": "ravi",
		"metalType":   "gold",
		"gramsGiven":  10,
		"purityGiven": "24k",
	})
	id := itoa(out["id"].(float64))

	resp, updated := doJSON(t, app, "PUT", "/api/ledger/"+id, token, fiber.Map{
		"jewelleryName": "sneaky ring", // in-only, dropped
		"entryType":     "in",          // immutable, dropped
		"status":        "completed",   // engine-owned, dropped
		"gramsGiven":    "12.5",        // coerced from string
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d (%v)", resp.StatusCode, updated)
	}
	if _, present := updated["jewelleryName"]; present {
		t.Fatalf("in-only field leaked into out entry: %v", updated["jewelleryName"])
	}
	if updated["entryType"] != "out" || updated["status"] != "pending" {
		t.Fatalf("protected fields changed: %v / %v", updated["entryType"], updated["status"])
	}
	if updated["gramsGiven"].(float64) != 12.5 {
		t.Fatalf("gramsGiven = %v", updated["gramsGiven"])
	}
}

func TestDuplicateHUIDOverHTTP(t *testing.T) {
	app, token := setupApp(t)

	inBody := fiber.Map{
		"entryType":      "in",
		"karagirName":    "ravi",
		"metalType":      "gold",
		"jewelleryName":  "ring",
		"subtype":        "regular gold jewellery",
		"huidNo":         "AB12CD",
		"grossWeight":    5,
		"netWeight":      4.8,
		"purityReceived": "22k",
		"labourCharge":   100,
	}
	resp, _ := doJSON(t, app, "POST", "/api/ledger", token, inBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first in status = %d", resp.StatusCode)
	}

	resp, errBody := doJSON(t, app, "POST", "/api/ledger", token, inBody)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", resp.StatusCode)
	}
	if errBody["field"] != "huidNo" {
		t.Fatalf("error body = %v", errBody)
	}

	// A manual item cannot reuse the HUID either.
	resp, _ = doJSON(t, app, "POST", "/api/items", token, fiber.Map{
		"jewelleryName": "chain",
		"metalType":     "gold",
		"subtype":       "regular gold jewellery",
		"huidNo":        "AB12CD",
		"grossWeight":   3,
		"netWeight":     2.9,
		"purity":        "22k",
		"labourCharge":  80,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("manual item duplicate status = %d, want 409", resp.StatusCode)
	}
}

func TestValidationErrorBodyShape(t *testing.T) {
	app, token := setupApp(t)

	resp, body := doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType":   "out",
		"karagirName": "ravi",
		"metalType":   "gold",
		// gramsGiven and purityGiven missing
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["message"] == nil {
		t.Fatalf("no message in error body: %v", body)
	}
	errs, ok := body["errors"].([]any)
	if !ok || len(errs) != 2 {
		t.Fatalf("errors array = %v", body["errors"])
	}

	resp, body = doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType": "loan",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad entryType status = %d", resp.StatusCode)
	}
	if body["field"] != "entryType" {
		t.Fatalf("error body = %v", body)
	}
}

func TestDeleteInEntryOverHTTP(t *testing.T) {
	app, token := setupApp(t)

	_, out := doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType":   "out",
		"karagirName": "ravi",
		"metalType":   "silver",
		"gramsGiven":  50,
		"purityGiven": "925",
	})
	_, in := doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType":      "in",
		"karagirName":    "ravi",
		"metalType":      "silver",
		"jewelleryName":  "anklet",
		"subtype":        "regular silver jewellery",
		"karatCarat":     "92.5",
		"grossWeight":    20,
		"netWeight":      19.5,
		"purityReceived": "925",
		"labourCharge":   50,
	})
	itemID := itoa(in["linkedItemId"].(float64))

	resp, _ := doJSON(t, app, "DELETE", "/api/ledger/"+itoa(in["id"].(float64)), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, got := doJSON(t, app, "GET", "/api/ledger/"+itoa(out["id"].(float64)), token, nil)
	if resp.StatusCode != http.StatusOK || got["status"] != "pending" {
		t.Fatalf("out entry not reverted: %d %v", resp.StatusCode, got["status"])
	}

	resp, _ = doJSON(t, app, "GET", "/api/items/"+itemID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("linked item still present, status = %d", resp.StatusCode)
	}
}

func TestDeleteAllOverHTTP(t *testing.T) {
	app, token := setupApp(t)

	doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType": "out", "karagirName": "ravi", "metalType": "gold",
		"gramsGiven": 10, "purityGiven": "24k",
	})
	doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType": "in", "karagirName": "ravi", "metalType": "gold",
		"jewelleryName": "ring", "subtype": "regular gold jewellery",
		"huidNo": "AB12CD", "grossWeight": 5, "netWeight": 4.8,
		"purityReceived": "22k", "labourCharge": 100,
	})

	resp, body := doJSON(t, app, "DELETE", "/api/ledger", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete-all status = %d", resp.StatusCode)
	}
	if body["deletedCount"].(float64) != 2 {
		t.Fatalf("deletedCount = %v", body["deletedCount"])
	}

	_, itemsBody := doJSON(t, app, "GET", "/api/items", token, nil)
	if itemsBody["count"].(float64) != 0 {
		t.Fatalf("items left after wipe: %v", itemsBody["count"])
	}
}

func TestSellTransactionDeactivatesItem(t *testing.T) {
	app, token := setupApp(t)

	_, item := doJSON(t, app, "POST", "/api/items", token, fiber.Map{
		"jewelleryName": "chain",
		"metalType":     "gold",
		"subtype":       "regular gold jewellery",
		"huidNo":        "XY99ZZ",
		"grossWeight":   3,
		"netWeight":     2.9,
		"purity":        "22k",
		"labourCharge":  80,
	})
	itemID := item["id"].(float64)

	resp, txn := doJSON(t, app, "POST", "/api/transactions", token, fiber.Map{
		"customerName": "Sunita",
		"tradeType":    "sell",
		"itemId":       itemID,
		"amount":       25000,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("sell status = %d (%v)", resp.StatusCode, txn)
	}

	_, got := doJSON(t, app, "GET", "/api/items/"+itoa(itemID), token, nil)
	if got["isActive"] != false {
		t.Fatalf("item still active after sale: %v", got["isActive"])
	}

	// Selling it again conflicts.
	resp, _ = doJSON(t, app, "POST", "/api/transactions", token, fiber.Map{
		"customerName": "Anil",
		"tradeType":    "sell",
		"itemId":       itemID,
		"amount":       26000,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double sell status = %d", resp.StatusCode)
	}

	// Deleting the sale puts the item back.
	resp, _ = doJSON(t, app, "DELETE", "/api/transactions/"+itoa(txn["id"].(float64)), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete sale status = %d", resp.StatusCode)
	}
	_, got = doJSON(t, app, "GET", "/api/items/"+itoa(itemID), token, nil)
	if got["isActive"] != true {
		t.Fatalf("item not reactivated: %v", got["isActive"])
	}
}

func TestRatesUpsert(t *testing.T) {
	app, token := setupApp(t)

	resp, rate := doJSON(t, app, "POST", "/api/rates", token, fiber.Map{
		"metalType":   "gold",
		"ratePerGram": 7200.5,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create rate status = %d", resp.StatusCode)
	}

	resp, updated := doJSON(t, app, "POST", "/api/rates", token, fiber.Map{
		"metalType":   "gold",
		"ratePerGram": 7300,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upsert rate status = %d", resp.StatusCode)
	}
	if updated["id"].(float64) != rate["id"].(float64) {
		t.Fatal("upsert created a second row")
	}
	if updated["ratePerGram"].(float64) != 7300 {
		t.Fatalf("ratePerGram = %v", updated["ratePerGram"])
	}
}

func TestAuditTrailRecordsLedgerMutations(t *testing.T) {
	app, token := setupApp(t)

	_, out := doJSON(t, app, "POST", "/api/ledger", token, fiber.Map{
		"entryType": "out", "karagirName": "ravi", "metalType": "gold",
		"gramsGiven": 10, "purityGiven": "24k",
	})
	doJSON(t, app, "DELETE", "/api/ledger/"+itoa(out["id"].(float64)), token, nil)

	resp, body := doJSON(t, app, "GET", "/api/audit-logs?entityType=ledger_entry", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit-logs status = %d", resp.StatusCode)
	}
	if body["count"].(float64) != 2 {
		t.Fatalf("audit log count = %v", body["count"])
	}
}

// itoa formats an id that came back through a JSON body as float64.
func itoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

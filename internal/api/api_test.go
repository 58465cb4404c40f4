package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Zlatonn/warranty-checker/internal/db"
	"github.com/Zlatonn/warranty-checker/internal/model"
	"github.com/Zlatonn/warranty-checker/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create a user directly.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin@example.com", "admin", string(hash))

	// Get token.
	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func itemPayload(name string) map[string]string {
	return map[string]string{
		"itemName":     name,
		"serialNumber": "SN-" + name,
		"endDate":      time.Now().AddDate(1, 0, 0).Format(model.DateLayout),
		"notes":        "purchased online",
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRegisterEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{
		"email":    "new@example.com",
		"username": "newuser",
		"password": "secret123",
	})
	resp, _ := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Duplicate email is rejected.
	resp, _ = http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// New user can log in.
	loginBody, _ := json.Marshal(map[string]string{"email": "new@example.com", "password": "secret123"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(loginBody))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for new user login, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsRequireAuth(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestItemsCRUDFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create.
	req, _ := authRequest("POST", server.URL+"/api/items", token, itemPayload("Laptop"))
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.Item
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.WarrantyState != model.StateWarranty {
		t.Errorf("expected warranty state for a one-year end date, got %q", created.WarrantyState)
	}

	// List.
	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}

	// Get.
	req, _ = authRequest("GET", server.URL+"/api/items/1", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Update to an expired date.
	payload := itemPayload("Laptop")
	payload["endDate"] = "2020-01-01"
	req, _ = authRequest("PUT", server.URL+"/api/items/1", token, payload)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated model.Item
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.WarrantyState != model.StateExpired {
		t.Errorf("expected expired after update, got %q", updated.WarrantyState)
	}
	if updated.RemainDays >= 0 {
		t.Errorf("expected negative remainDays, got %d", updated.RemainDays)
	}

	// Delete returns the removed record.
	req, _ = authRequest("DELETE", server.URL+"/api/items/1", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/items/1", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateItemValidationErrors(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, map[string]string{
		"serialNumber": "SN1",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var body map[string][]string
	json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if len(body["errors"]) != 3 {
		t.Errorf("expected 3 errors (itemName, endDate, notes), got %v", body["errors"])
	}
}

func TestUpdateMissingItem(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("PUT", server.URL+"/api/items/999", token, itemPayload("Ghost"))
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestListItemsSearchFilter(t *testing.T) {
	server, token := setupTestServer(t)

	for _, name := range []string{"Washer", "Dryer"} {
		req, _ := authRequest("POST", server.URL+"/api/items", token, itemPayload(name))
		resp, _ := http.DefaultClient.Do(req)
		resp.Body.Close()
	}

	req, _ := authRequest("GET", server.URL+"/api/items?q=Wash", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 || items[0].ItemName != "Washer" {
		t.Errorf("expected Washer only, got %+v", items)
	}
}

func TestChangePasswordFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Wrong current password is rejected.
	req, _ := authRequest("PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "wrong",
		"new_password":     "hunter2hunter2",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong current password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "password",
		"new_password":     "hunter2hunter2",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Old password no longer works, the new one does.
	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "password"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for old password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	body, _ = json.Marshal(map[string]string{"email": "admin@example.com", "password": "hunter2hunter2"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for new password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestReceiptUploadRoundTrip(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/items", token, itemPayload("Camera"))
	resp, _ := http.DefaultClient.Do(req)
	var created model.Item
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	// Build a multipart body with a small PNG.
	var imgBuf bytes.Buffer
	png.Encode(&imgBuf, image.NewRGBA(image.Rect(0, 0, 10, 10)))

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, _ := writer.CreateFormFile("receipt", "receipt.png")
	part.Write(imgBuf.Bytes())
	writer.Close()

	url := server.URL + "/api/items/1/receipt"
	upload, _ := http.NewRequest("PUT", url, &form)
	upload.Header.Set("Authorization", "Bearer "+token)
	upload.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := http.DefaultClient.Do(upload)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for upload, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Fetch it back; receipts are re-encoded as JPEG.
	req, _ = authRequest("GET", url, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for receipt, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", ct)
	}
	if v := resp.Header.Get("X-Content-Type-Options"); v != "nosniff" {
		t.Errorf("expected nosniff, got %q", v)
	}
	resp.Body.Close()
}

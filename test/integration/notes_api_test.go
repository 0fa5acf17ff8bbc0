package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"edunotes-be/internal/bootstrap"
	"edunotes-be/internal/config"
	"edunotes-be/internal/entity"
	"edunotes-be/internal/repository/unitofwork"
	"edunotes-be/internal/server"
	"edunotes-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestNotesLifecycle(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	require.NoError(t, err)

	container := bootstrap.NewContainer(db, cfg)
	app := server.New(cfg, container).GetApp()

	suffix := uuid.NewString()[:8]
	uploaderEmail := fmt.Sprintf("uploader-%s@example.com", suffix)
	adminEmail := fmt.Sprintf("admin-%s@example.com", suffix)

	// Register the uploader through the API; seed the admin directly.
	registerBody, _ := json.Marshal(map[string]string{
		"email": uploaderEmail, "password": "password123", "full_name": "Integration Uploader",
	})
	res := doJSON(t, app, http.MethodPost, "/api/auth/register", registerBody, "")
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	seedAdmin(t, db, adminEmail)

	uploaderToken := login(t, app, uploaderEmail, "password123")
	adminToken := login(t, app, adminEmail, "admin123")

	// Below the reciprocity threshold every download is refused.
	uploadedID := uploadNote(t, app, uploaderToken, "Control Systems Unit 2")
	res = doJSON(t, app, http.MethodGet, "/api/notes/"+uploadedID+"/download", nil, uploaderToken)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	// Second upload reaches the threshold (pending uploads count by default).
	secondID := uploadNote(t, app, uploaderToken, "Control Systems Unit 3")
	res = doJSON(t, app, http.MethodGet, "/api/notes/"+secondID+"/download", nil, uploaderToken)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	// Moderation: approve the first, reject the second.
	res = doJSON(t, app, http.MethodPost, "/api/admin/notes/"+uploadedID+"/approve", nil, adminToken)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	rejectBody, _ := json.Marshal(map[string]string{"reason": "duplicate upload"})
	res = doJSON(t, app, http.MethodPost, "/api/admin/notes/"+secondID+"/reject", rejectBody, adminToken)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	// Terminal states refuse further transitions.
	res = doJSON(t, app, http.MethodPost, "/api/admin/notes/"+uploadedID+"/approve", nil, adminToken)
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)

	// The owner view carries both outcomes.
	res = doJSON(t, app, http.MethodGet, "/api/notes/mine", nil, uploaderToken)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var mine struct {
		Data []struct {
			Id           string `json:"id"`
			Status       string `json:"status"`
			RejectReason string `json:"rejectReason"`
		} `json:"data"`
	}
	decodeBody(t, res, &mine)
	statuses := map[string]string{}
	for _, n := range mine.Data {
		statuses[n.Id] = n.Status
		if n.Id == secondID {
			assert.Equal(t, "duplicate upload", n.RejectReason)
		}
	}
	assert.Equal(t, "approved", statuses[uploadedID])
	assert.Equal(t, "rejected", statuses[secondID])

	// The approved note is publicly listed; suggestions see its institute.
	res = doJSON(t, app, http.MethodGet, "/api/notes?category=engineering&institute=IIT+Madras", nil, "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res = doJSON(t, app, http.MethodGet, "/api/notes/institutes?category=engineering&prefix=iit", nil, "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var suggestions struct {
		Institutes []string `json:"institutes"`
	}
	decodeBody(t, res, &suggestions)
	assert.Contains(t, suggestions.Institutes, "IIT Madras")
}

func seedAdmin(t *testing.T, db *gorm.DB, email string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)

	admin := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     "Integration Admin",
		Role:         entity.UserRoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
	}
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(context.Background())
	require.NoError(t, uow.UserRepository().Create(context.Background(), admin))
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	res := doJSON(t, app, http.MethodPost, "/api/auth/login", body, "")
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var payload struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decodeBody(t, res, &payload)
	require.NotEmpty(t, payload.Data.Token)
	return payload.Data.Token
}

func uploadNote(t *testing.T, app *fiber.App, token, subject string) string {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"category":    "engineering",
		"institute":   "IIT Madras",
		"state":       "Tamil Nadu",
		"district":    "Chennai",
		"departments": "ECE,EEE",
		"year":        "2nd Year",
		"semester":    "3",
		"subject":     subject,
		"uPhone":      "+91 98765 43210",
		"uConsent":    "true",
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	// CreateFormFile would stamp application/octet-stream; the server
	// checks the part's content type.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="notes.pdf"`)
	header.Set("Content-Type", "application/pdf")
	fw, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 integration fixture"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/notes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := app.Test(req, int(10*time.Second/time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var payload struct {
		Data struct {
			Id     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	decodeBody(t, res, &payload)
	require.Equal(t, "pending", payload.Data.Status)
	return payload.Data.Id
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body []byte, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req, int(10*time.Second/time.Millisecond))
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response, out interface{}) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

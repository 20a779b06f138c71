package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/webodise/siteapi/internal/mailer"
	"github.com/webodise/siteapi/internal/model"
	"github.com/webodise/siteapi/internal/service"
	"github.com/webodise/siteapi/internal/store"
	"github.com/webodise/siteapi/internal/upload"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

const (
	testSecret    = "test-secret-for-token-integration-tests"
	rootEmail     = "root@example.com"
	adminEmail    = "admin@example.com"
	rootPassword  = "rootpassword123"
	adminPassword = "adminpassword123"
)

// testEnv holds all the shared state for integration tests.
type testEnv struct {
	server  *Server
	store   *store.Store
	authSvc *service.AuthService
}

// newTestEnv creates a fresh environment with an in-memory store, a root
// superadmin, a regular admin, and a fully wired Server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.New("") // in-memory SQLite
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	authSvc := service.NewAuthService(st, testSecret, time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service.EnsureRootSuperadmin(context.Background(), st, rootEmail, rootPassword, logger)
	seedAdmin(t, st, adminEmail, adminPassword, model.RoleAdmin)

	uploads := upload.NewStore(t.TempDir())
	m := mailer.New(mailer.Config{}, logger) // disabled

	cfg := DefaultConfig()
	cfg.RootEmail = rootEmail
	srv := New(cfg, st, uploads, authSvc, m, logger)

	return &testEnv{server: srv, store: st, authSvc: authSvc}
}

func seedAdmin(t *testing.T, st *store.Store, email, password string, role model.Role) *model.AdminUser {
	t.Helper()
	salt, hash, err := service.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &model.AdminUser{
		Email:        service.NormalizeEmail(email),
		PasswordSalt: salt,
		PasswordHash: hash,
		Role:         role,
	}
	if err := st.CreateAdmin(context.Background(), user); err != nil {
		t.Fatalf("seedAdmin: %v", err)
	}
	return user
}

// login logs in with the given credentials and returns the bearer token.
func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	body := jsonBody(t, map[string]string{"email": email, "password": password})
	rr := e.do(t, "POST", "/api/admin/login", body, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Token string `json:"token"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Token == "" {
		t.Fatal("login: got empty token")
	}
	return resp.Token
}

func (e *testEnv) rootToken(t *testing.T) string {
	t.Helper()
	return e.login(t, rootEmail, rootPassword)
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	return e.login(t, adminEmail, adminPassword)
}

// do executes an HTTP request against the test server and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil && headers["Content-Type"] == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

// doAuth executes an authenticated request using a bearer token.
func (e *testEnv) doAuth(t *testing.T, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return buf
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Error != want {
		t.Errorf("error = %q, want %q", resp.Error, want)
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v; body = %s", err, rr.Body.String())
	}
}

// multipartBody builds a multipart form with the given fields and one file
// part. Returns the body and the Content-Type header value.
func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, fileContentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if fileField != "" {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, fileName)}
		h["Content-Type"] = []string{fileContentType}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return buf, w.FormDataContentType()
}

// ---------------------------------------------------------------------------
// Health check
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/health", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	decodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
	if resp["timestamp"] == "" {
		t.Error("expected a timestamp in the health response")
	}
}

// ---------------------------------------------------------------------------
// Login and session
// ---------------------------------------------------------------------------

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	body := jsonBody(t, map[string]string{"email": rootEmail, "password": rootPassword})
	rr := env.do(t, "POST", "/api/admin/login", body, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Email != rootEmail {
		t.Errorf("user email = %q, want %q", resp.User.Email, rootEmail)
	}
	if resp.User.Role != "superadmin" {
		t.Errorf("user role = %q, want superadmin", resp.User.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	body := jsonBody(t, map[string]string{"email": rootEmail, "password": "wrong"})
	rr := env.do(t, "POST", "/api/admin/login", body, nil)
	assertStatus(t, rr, http.StatusUnauthorized)
	assertError(t, rr, "Invalid email or password")
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	// Unknown email must be indistinguishable from a wrong password.
	body := jsonBody(t, map[string]string{"email": "nobody@example.com", "password": "whatever123"})
	rr := env.do(t, "POST", "/api/admin/login", body, nil)
	assertStatus(t, rr, http.StatusUnauthorized)
	assertError(t, rr, "Invalid email or password")
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	body := jsonBody(t, map[string]string{"email": rootEmail})
	rr := env.do(t, "POST", "/api/admin/login", body, nil)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Email and password are required")
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/me", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeJSON(t, rr, &resp)
	if resp.User.Email != adminEmail {
		t.Errorf("email = %q, want %q", resp.User.Email, adminEmail)
	}
	if resp.User.Role != "admin" {
		t.Errorf("role = %q, want admin", resp.User.Role)
	}
}

func TestMeWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/admin/me", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)
	assertError(t, rr, "Unauthorized")
}

func TestTamperedTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	tampered := token[:len(token)-2] + "zz"
	rr := env.doAuth(t, "GET", "/api/admin/me", nil, tampered)
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	user, err := env.store.GetAdminByEmail(context.Background(), adminEmail)
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}
	if err := env.store.DeleteAdmin(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteAdmin: %v", err)
	}

	rr := env.doAuth(t, "GET", "/api/admin/me", nil, token)
	assertStatus(t, rr, http.StatusUnauthorized)
}

// ---------------------------------------------------------------------------
// User management (superadmin only)
// ---------------------------------------------------------------------------

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.rootToken(t)

	body := jsonBody(t, map[string]string{
		"email":    "new@example.com",
		"password": "newpassword1",
		"role":     "admin",
	})
	rr := env.doAuth(t, "POST", "/api/admin/users", body, token)
	assertStatus(t, rr, http.StatusCreated)

	var resp struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeJSON(t, rr, &resp)
	if resp.User.Role != "admin" {
		t.Errorf("role = %q, want admin", resp.User.Role)
	}

	// The created user can log in.
	env.login(t, "new@example.com", "newpassword1")
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.rootToken(t)

	cases := []struct {
		name    string
		body    map[string]string
		status  int
		message string
	}{
		{
			"short password",
			map[string]string{"email": "a@example.com", "password": "short"},
			http.StatusBadRequest, "Password must be at least 8 characters",
		},
		{
			"bad email",
			map[string]string{"email": "not-an-email", "password": "longenough1"},
			http.StatusBadRequest, "Invalid email format",
		},
		{
			"bad role",
			map[string]string{"email": "a@example.com", "password": "longenough1", "role": "owner"},
			http.StatusBadRequest, "Role must be admin or superadmin",
		},
		{
			"duplicate email",
			map[string]string{"email": adminEmail, "password": "longenough1"},
			http.StatusConflict, "User already exists with this email",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.doAuth(t, "POST", "/api/admin/users", jsonBody(t, tc.body), token)
			assertStatus(t, rr, tc.status)
			assertError(t, rr, tc.message)
		})
	}
}

func TestListUsersExcludesRoot(t *testing.T) {
	env := newTestEnv(t)
	token := env.rootToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/users", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var users []struct {
		Email string `json:"email"`
	}
	decodeJSON(t, rr, &users)
	for _, u := range users {
		if u.Email == rootEmail {
			t.Error("root superadmin must not appear in the user list")
		}
	}
	if len(users) != 1 {
		t.Errorf("got %d users, want 1", len(users))
	}
}

func TestUserManagementForbiddenForAdmin(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/users", nil, token)
	assertStatus(t, rr, http.StatusForbidden)
	assertError(t, rr, "Forbidden")

	body := jsonBody(t, map[string]string{"email": "x@example.com", "password": "longenough1"})
	rr = env.doAuth(t, "POST", "/api/admin/users", body, token)
	assertStatus(t, rr, http.StatusForbidden)
}

func TestUpdateUserRole(t *testing.T) {
	env := newTestEnv(t)
	token := env.rootToken(t)

	user, err := env.store.GetAdminByEmail(context.Background(), adminEmail)
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}

	body := jsonBody(t, map[string]string{"role": "superadmin"})
	rr := env.doAuth(t, "PUT", "/api/admin/users/"+user.ID+"/role", body, token)
	assertStatus(t, rr, http.StatusOK)

	updated, err := env.store.GetAdminByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetAdminByID: %v", err)
	}
	if updated.Role != model.RoleSuperAdmin {
		t.Errorf("role = %q, want superadmin", updated.Role)
	}
}

func TestRootSuperadminProtections(t *testing.T) {
	env := newTestEnv(t)
	token := env.rootToken(t)

	root, err := env.store.GetAdminByEmail(context.Background(), rootEmail)
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}

	body := jsonBody(t, map[string]string{"role": "admin"})
	rr := env.doAuth(t, "PUT", "/api/admin/users/"+root.ID+"/role", body, token)
	assertStatus(t, rr, http.StatusForbidden)
	assertError(t, rr, "Main superadmin role cannot be changed")

	rr = env.doAuth(t, "DELETE", "/api/admin/users/"+root.ID, nil, token)
	assertStatus(t, rr, http.StatusForbidden)
	assertError(t, rr, "Main superadmin cannot be deleted")
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.rootToken(t)

	user, err := env.store.GetAdminByEmail(context.Background(), adminEmail)
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}

	rr := env.doAuth(t, "DELETE", "/api/admin/users/"+user.ID, nil, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doAuth(t, "DELETE", "/api/admin/users/"+user.ID, nil, token)
	assertStatus(t, rr, http.StatusNotFound)
	assertError(t, rr, "User not found")
}

// ---------------------------------------------------------------------------
// Contact form
// ---------------------------------------------------------------------------

func TestContactSubmit(t *testing.T) {
	env := newTestEnv(t)

	body := jsonBody(t, map[string]string{
		"name":    "Jane Visitor",
		"email":   "jane@example.com",
		"message": "I have a question about admissions.",
	})
	rr := env.do(t, "POST", "/api/contacts", body, nil)
	assertStatus(t, rr, http.StatusCreated)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeJSON(t, rr, &resp)
	if !resp.Success {
		t.Error("expected success = true")
	}
	if !strings.Contains(resp.Message, "Thank you for contacting our team") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestContactSubmitMissingFields(t *testing.T) {
	env := newTestEnv(t)

	body := jsonBody(t, map[string]string{"name": "Jane"})
	rr := env.do(t, "POST", "/api/contacts", body, nil)
	assertStatus(t, rr, http.StatusBadRequest)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Success {
		t.Error("expected success = false")
	}
	if resp.Message != "Please provide all required fields" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestContactListRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/contacts", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.doAuth(t, "GET", "/api/contacts", nil, env.adminToken(t))
	assertStatus(t, rr, http.StatusOK)
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func TestMessageSubmitAndInbox(t *testing.T) {
	env := newTestEnv(t)

	// A phone number is optional; subject is not.
	body := jsonBody(t, map[string]string{
		"name":    "Prospective Parent",
		"email":   "parent@example.com",
		"subject": "Term dates",
		"message": "When does the new term begin?",
	})
	rr := env.do(t, "POST", "/api/messages", body, nil)
	assertStatus(t, rr, http.StatusCreated)

	token := env.adminToken(t)
	rr = env.doAuth(t, "GET", "/api/messages", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var messages []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, rr, &messages)
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].Status != "new" {
		t.Errorf("status = %q, want new", messages[0].Status)
	}

	rr = env.doAuth(t, "POST", "/api/messages/"+messages[0].ID+"/read", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var updated struct {
		Status string `json:"status"`
	}
	decodeJSON(t, rr, &updated)
	if updated.Status != "read" {
		t.Errorf("status = %q, want read", updated.Status)
	}

	rr = env.doAuth(t, "DELETE", "/api/messages/"+messages[0].ID, nil, token)
	assertStatus(t, rr, http.StatusOK)
}

func TestMessageSubmitValidation(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/messages", jsonBody(t, map[string]string{"name": "x"}), nil)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Missing required fields")

	// Subject is required.
	rr = env.do(t, "POST", "/api/messages", jsonBody(t, map[string]string{
		"name": "x", "email": "x@example.com", "phone": "1", "message": "hi",
	}), nil)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Missing required fields")

	rr = env.do(t, "POST", "/api/messages", jsonBody(t, map[string]string{
		"name": "x", "email": "not-an-email", "subject": "hello", "message": "hi",
	}), nil)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Invalid email format")
}

// ---------------------------------------------------------------------------
// Moments
// ---------------------------------------------------------------------------

func createMoment(t *testing.T, env *testEnv, token string, fields map[string]string) string {
	t.Helper()
	body, contentType := multipartBody(t, fields, "image", "photo.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	rr := env.do(t, "POST", "/api/moments", body, map[string]string{
		"Content-Type":  contentType,
		"Authorization": "Bearer " + token,
	})
	assertStatus(t, rr, http.StatusCreated)

	var resp struct {
		ID string `json:"id"`
	}
	decodeJSON(t, rr, &resp)
	if resp.ID == "" {
		t.Fatal("expected a moment ID")
	}
	return resp.ID
}

func TestMomentCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	createMoment(t, env, token, map[string]string{
		"title":     "Annual Day",
		"category":  "Events",
		"eventDate": "2026-02-14",
	})

	rr := env.do(t, "GET", "/api/moments", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var moments []struct {
		Title     string `json:"title"`
		Category  string `json:"category"`
		ImagePath string `json:"imagePath"`
	}
	decodeJSON(t, rr, &moments)
	if len(moments) != 1 {
		t.Fatalf("got %d moments, want 1", len(moments))
	}
	if moments[0].Category != "Events" {
		t.Errorf("category = %q, want Events", moments[0].Category)
	}
	if !strings.HasPrefix(moments[0].ImagePath, "/uploads/") {
		t.Errorf("imagePath = %q, want /uploads/ prefix", moments[0].ImagePath)
	}
}

func TestMomentCreateRequiresImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartBody(t, map[string]string{"title": "No Photo"}, "", "", "", nil)
	rr := env.do(t, "POST", "/api/moments", body, map[string]string{
		"Content-Type":  contentType,
		"Authorization": "Bearer " + token,
	})
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Image file is required (field `image`)")
}

func TestMomentDefaultCategory(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	id := createMoment(t, env, token, map[string]string{"title": "Untagged"})

	moment, err := env.store.GetMoment(context.Background(), id)
	if err != nil {
		t.Fatalf("GetMoment: %v", err)
	}
	if moment.Category != model.CategoryEvents {
		t.Errorf("category = %q, want Events default", moment.Category)
	}
}

func TestMomentSetTop(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	id1 := createMoment(t, env, token, map[string]string{"title": "First", "isTop": "true"})
	id2 := createMoment(t, env, token, map[string]string{"title": "Second"})

	rr := env.doAuth(t, "POST", "/api/moments/"+id2+"/top", nil, token)
	assertStatus(t, rr, http.StatusOK)

	first, _ := env.store.GetMoment(context.Background(), id1)
	second, _ := env.store.GetMoment(context.Background(), id2)
	if first.IsTop {
		t.Error("expected first moment to be demoted")
	}
	if !second.IsTop {
		t.Error("expected second moment to be the top one")
	}
}

func TestMomentDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	id := createMoment(t, env, token, map[string]string{"title": "Ephemeral"})

	rr := env.doAuth(t, "DELETE", "/api/moments/"+id, nil, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doAuth(t, "DELETE", "/api/moments/"+id, nil, token)
	assertStatus(t, rr, http.StatusNotFound)
	assertError(t, rr, "Moment not found")
}

func TestMomentMutationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, map[string]string{"title": "Nope"}, "image", "p.jpg", "image/jpeg", []byte("x"))
	rr := env.do(t, "POST", "/api/moments", body, map[string]string{"Content-Type": contentType})
	assertStatus(t, rr, http.StatusUnauthorized)
}

// ---------------------------------------------------------------------------
// Notices
// ---------------------------------------------------------------------------

func TestNoticeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body := jsonBody(t, map[string]string{"text": "School closed on Friday", "noticeDate": "2026-09-04"})
	rr := env.doAuth(t, "POST", "/api/notices", body, token)
	assertStatus(t, rr, http.StatusCreated)

	var created struct {
		Notice struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"notice"`
	}
	decodeJSON(t, rr, &created)
	if created.Notice.Text != "School closed on Friday" {
		t.Errorf("text = %q", created.Notice.Text)
	}

	rr = env.do(t, "GET", "/api/notices", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var listed struct {
		Notices []struct {
			ID string `json:"id"`
		} `json:"notices"`
	}
	decodeJSON(t, rr, &listed)
	if len(listed.Notices) != 1 {
		t.Fatalf("got %d notices, want 1", len(listed.Notices))
	}

	rr = env.doAuth(t, "DELETE", "/api/notices/"+created.Notice.ID, nil, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doAuth(t, "DELETE", "/api/notices/"+created.Notice.ID, nil, token)
	assertStatus(t, rr, http.StatusNotFound)
	assertError(t, rr, "Notice not found")
}

func TestNoticeValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "POST", "/api/notices", jsonBody(t, map[string]string{"text": "   "}), token)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Notice text is required")

	long := strings.Repeat("x", 501)
	rr = env.doAuth(t, "POST", "/api/notices", jsonBody(t, map[string]string{"text": long}), token)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Notice text must be 500 characters or fewer")

	rr = env.doAuth(t, "POST", "/api/notices", jsonBody(t, map[string]string{"text": "ok", "noticeDate": "not-a-date"}), token)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Invalid notice date")
}

// ---------------------------------------------------------------------------
// Admission form
// ---------------------------------------------------------------------------

func TestAdmissionFormLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	// No form uploaded yet.
	rr := env.do(t, "GET", "/api/admission-form", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var empty struct {
		Form *json.RawMessage `json:"form"`
	}
	decodeJSON(t, rr, &empty)
	if empty.Form != nil && string(*empty.Form) != "null" {
		t.Errorf("expected form = null, got %s", string(*empty.Form))
	}

	body, contentType := multipartBody(t, nil, "formFile", "admission-2026.pdf", "application/pdf", []byte("%PDF-1.4 fake"))
	rr = env.do(t, "POST", "/api/admission-form", body, map[string]string{
		"Content-Type":  contentType,
		"Authorization": "Bearer " + token,
	})
	assertStatus(t, rr, http.StatusCreated)

	var uploaded struct {
		Form struct {
			ID       string `json:"id"`
			FileName string `json:"fileName"`
			FilePath string `json:"filePath"`
		} `json:"form"`
	}
	decodeJSON(t, rr, &uploaded)
	if uploaded.Form.FileName != "admission-2026.pdf" {
		t.Errorf("fileName = %q", uploaded.Form.FileName)
	}
	if !strings.HasPrefix(uploaded.Form.FilePath, "/uploads/admission-forms/") {
		t.Errorf("filePath = %q, want /uploads/admission-forms/ prefix", uploaded.Form.FilePath)
	}

	rr = env.do(t, "GET", "/api/admission-form", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doAuth(t, "DELETE", "/api/admission-form/"+uploaded.Form.ID, nil, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doAuth(t, "DELETE", "/api/admission-form/"+uploaded.Form.ID, nil, token)
	assertStatus(t, rr, http.StatusNotFound)
	assertError(t, rr, "Admission form not found")
}

func TestAdmissionFormRejectsBadTypes(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartBody(t, nil, "formFile", "malware.exe", "application/octet-stream", []byte("MZ"))
	rr := env.do(t, "POST", "/api/admission-form", body, map[string]string{
		"Content-Type":  contentType,
		"Authorization": "Bearer " + token,
	})
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Only PDF, DOC, and DOCX files are allowed")
}

func TestAdmissionFormRequiresFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body, contentType := multipartBody(t, map[string]string{"note": "no file"}, "", "", "", nil)
	rr := env.do(t, "POST", "/api/admission-form", body, map[string]string{
		"Content-Type":  contentType,
		"Authorization": "Bearer " + token,
	})
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Form file is required (field `formFile`)")
}

// ---------------------------------------------------------------------------
// Site settings
// ---------------------------------------------------------------------------

func TestAdmissionsBadge(t *testing.T) {
	env := newTestEnv(t)

	// Default before any admin sets it.
	rr := env.do(t, "GET", "/api/site-settings/admissions-badge", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Text string `json:"text"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Text != "Admissions Open 2026-27" {
		t.Errorf("default text = %q", resp.Text)
	}

	token := env.adminToken(t)
	body := jsonBody(t, map[string]string{"text": "Admissions Closed"})
	rr = env.doAuth(t, "PUT", "/api/site-settings/admissions-badge", body, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.do(t, "GET", "/api/site-settings/admissions-badge", nil, nil)
	decodeJSON(t, rr, &resp)
	if resp.Text != "Admissions Closed" {
		t.Errorf("text = %q, want Admissions Closed", resp.Text)
	}
}

func TestAdmissionsBadgeValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "PUT", "/api/site-settings/admissions-badge", jsonBody(t, map[string]string{"text": " "}), token)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Badge text is required")

	long := strings.Repeat("y", 121)
	rr = env.doAuth(t, "PUT", "/api/site-settings/admissions-badge", jsonBody(t, map[string]string{"text": long}), token)
	assertStatus(t, rr, http.StatusBadRequest)
	assertError(t, rr, "Badge text must be 120 characters or fewer")
}

package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"life-server/internal/auth"
	"life-server/internal/explog"
	"life-server/internal/shared/config"
	"life-server/internal/shared/cookies"
	"life-server/internal/shared/database"
	"life-server/internal/stage"
	"life-server/internal/store"
)

func setupTestServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()

	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "life_test.sqlite"))
	t.Setenv("SYNC_ENABLED", "false")

	if err := config.Init(); err != nil {
		t.Fatalf("config.Init() error: %v", err)
	}

	db, err := database.Connect()
	if err != nil {
		t.Fatalf("database.Connect() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error: %v", err)
	}

	st, err := store.New(t.Context(), store.Options{
		Backend: store.NewSQLBackend(db),
		Logger:  slog.Default(),
	})
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}

	authorizer := auth.NewPassphraseAuthorizer(config.GlobalConfig.Admin.Passphrase)
	mux := NewRoutes(db, st, authorizer, slog.Default()).Setup()

	return mux, st
}

func doJSON(t *testing.T, h http.Handler, method, target string, body interface{}, sessionCookie string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		reader = &bytes.Buffer{}
		if err := json.NewEncoder(reader).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: cookies.AuthCookieName, Value: sessionCookie})
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, h http.Handler, nickname string, admin bool, passphrase string) string {
	t.Helper()

	rr := doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"nickname":   nickname,
		"admin":      admin,
		"passphrase": passphrase,
	}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login as %q returned %d: %s", nickname, rr.Code, rr.Body.String())
	}

	for _, c := range rr.Result().Cookies() {
		if c.Name == cookies.AuthCookieName {
			return c.Value
		}
	}
	t.Fatal("login response carried no session cookie")
	return ""
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := setupTestServer(t)

	rr := doJSON(t, mux, http.MethodGet, "/api/server/health", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("health returned %d", rr.Code)
	}

	body := decodeBody[map[string]string](t, rr)
	if body["database"] != "connected" {
		t.Errorf("database status = %q, want connected", body["database"])
	}
}

func TestLoginIssuesSession(t *testing.T) {
	mux, _ := setupTestServer(t)

	session := login(t, mux, "Rae", false, "")

	rr := doJSON(t, mux, http.MethodGet, "/api/auth/me", nil, session)
	if rr.Code != http.StatusOK {
		t.Fatalf("me returned %d", rr.Code)
	}

	me := decodeBody[map[string]interface{}](t, rr)
	if me["nickname"] != "Rae" {
		t.Errorf("nickname = %v, want Rae", me["nickname"])
	}
	if me["isAdmin"] != false {
		t.Errorf("isAdmin = %v, want false", me["isAdmin"])
	}
}

func TestLoginRequiresNickname(t *testing.T) {
	mux, _ := setupTestServer(t)

	rr := doJSON(t, mux, http.MethodPost, "/api/auth/login", map[string]string{"nickname": "  "}, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank nickname login returned %d, want 400", rr.Code)
	}
}

func TestAdminLoginPassphrase(t *testing.T) {
	mux, _ := setupTestServer(t)

	rr := doJSON(t, mux, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"nickname":   "Vex",
		"admin":      true,
		"passphrase": "wrong",
	}, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong passphrase returned %d, want 401", rr.Code)
	}

	session := login(t, mux, "Vex", true, config.GlobalConfig.Admin.Passphrase)

	me := decodeBody[map[string]interface{}](t, doJSON(t, mux, http.MethodGet, "/api/auth/me", nil, session))
	if me["isAdmin"] != true {
		t.Errorf("isAdmin = %v, want true", me["isAdmin"])
	}
}

func TestStagesRequireAuthentication(t *testing.T) {
	mux, _ := setupTestServer(t)

	if rr := doJSON(t, mux, http.MethodGet, "/api/stages", nil, ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated stage list returned %d, want 401", rr.Code)
	}
}

func TestStageVisibility(t *testing.T) {
	mux, st := setupTestServer(t)

	adminSession := login(t, mux, "Vex", true, config.GlobalConfig.Admin.Passphrase)
	explorerSession := login(t, mux, "Rae", false, "")

	catalog := st.Stages()
	catalog = append(catalog, stage.Stage{ID: "2", Name: "Veiled Depths", Code: "VD-002", IsPublished: false})

	if rr := doJSON(t, mux, http.MethodPut, "/api/stages", catalog, adminSession); rr.Code != http.StatusOK {
		t.Fatalf("admin replace returned %d: %s", rr.Code, rr.Body.String())
	}

	explorerView := decodeBody[[]stage.Stage](t, doJSON(t, mux, http.MethodGet, "/api/stages", nil, explorerSession))
	if len(explorerView) != 1 || explorerView[0].ID != "1" {
		t.Fatalf("explorer sees %+v, want only the published stage", explorerView)
	}

	adminView := decodeBody[[]stage.Stage](t, doJSON(t, mux, http.MethodGet, "/api/stages", nil, adminSession))
	if len(adminView) != 2 {
		t.Fatalf("admin sees %d stages, want 2", len(adminView))
	}

	if rr := doJSON(t, mux, http.MethodGet, "/api/stages/2", nil, explorerSession); rr.Code != http.StatusNotFound {
		t.Fatalf("unpublished stage fetch by explorer returned %d, want 404", rr.Code)
	}
	if rr := doJSON(t, mux, http.MethodGet, "/api/stages/2", nil, adminSession); rr.Code != http.StatusOK {
		t.Fatalf("unpublished stage fetch by admin returned %d, want 200", rr.Code)
	}
}

func TestReplaceStagesRequiresAdmin(t *testing.T) {
	mux, st := setupTestServer(t)

	session := login(t, mux, "Rae", false, "")

	rr := doJSON(t, mux, http.MethodPut, "/api/stages", st.Stages(), session)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-admin replace returned %d, want 403", rr.Code)
	}
}

func TestReplaceStagesRejectsDuplicateIDs(t *testing.T) {
	mux, _ := setupTestServer(t)

	adminSession := login(t, mux, "Vex", true, config.GlobalConfig.Admin.Passphrase)

	catalog := []stage.Stage{{ID: "1"}, {ID: "1"}}
	rr := doJSON(t, mux, http.MethodPut, "/api/stages", catalog, adminSession)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("duplicate ids returned %d, want 400", rr.Code)
	}
}

func TestLogLifecycle(t *testing.T) {
	mux, _ := setupTestServer(t)

	raeSession := login(t, mux, "Rae", false, "")
	kaiSession := login(t, mux, "Kai", false, "")

	created := decodeBody[explog.ExplorationLog](t, doJSON(t, mux, http.MethodPost, "/api/stages/1/logs",
		map[string]string{"content": "found water"}, raeSession))
	if created.ID == "" || created.Nickname != "Rae" || created.StageID != "1" {
		t.Fatalf("unexpected created log: %+v", created)
	}

	doJSON(t, mux, http.MethodPost, "/api/stages/1/logs", map[string]string{"content": "found ice"}, raeSession)

	listed := decodeBody[[]explog.ExplorationLog](t, doJSON(t, mux, http.MethodGet, "/api/stages/1/logs", nil, raeSession))
	if len(listed) != 2 {
		t.Fatalf("stage has %d logs, want 2", len(listed))
	}
	if listed[0].Content != "found ice" || listed[1].Content != "found water" {
		t.Errorf("log order = [%q, %q], want newest first", listed[0].Content, listed[1].Content)
	}

	// Ownership is checked by nickname, so a different nickname is rejected.
	if rr := doJSON(t, mux, http.MethodPut, "/api/logs/"+created.ID,
		map[string]string{"content": "my discovery actually"}, kaiSession); rr.Code != http.StatusForbidden {
		t.Fatalf("foreign edit returned %d, want 403", rr.Code)
	}

	edited := decodeBody[explog.ExplorationLog](t, doJSON(t, mux, http.MethodPut, "/api/logs/"+created.ID,
		map[string]string{"content": "found heavy water"}, raeSession))
	if edited.Content != "found heavy water" {
		t.Errorf("edited content = %q", edited.Content)
	}
	if edited.ID != created.ID || edited.Timestamp != created.Timestamp {
		t.Error("edit must not change id or timestamp")
	}

	mine := decodeBody[[]explog.ExplorationLog](t, doJSON(t, mux, http.MethodGet, "/api/me/logs", nil, kaiSession))
	if len(mine) != 0 {
		t.Fatalf("Kai's profile shows %d logs, want 0", len(mine))
	}

	if rr := doJSON(t, mux, http.MethodDelete, "/api/logs/"+created.ID, nil, kaiSession); rr.Code != http.StatusForbidden {
		t.Fatalf("foreign delete returned %d, want 403", rr.Code)
	}
	if rr := doJSON(t, mux, http.MethodDelete, "/api/logs/"+created.ID, nil, raeSession); rr.Code != http.StatusOK {
		t.Fatalf("delete returned %d, want 200", rr.Code)
	}
	// Deleting again is an idempotent no-op.
	if rr := doJSON(t, mux, http.MethodDelete, "/api/logs/"+created.ID, nil, raeSession); rr.Code != http.StatusOK {
		t.Fatalf("second delete returned %d, want 200", rr.Code)
	}

	remaining := decodeBody[[]explog.ExplorationLog](t, doJSON(t, mux, http.MethodGet, "/api/stages/1/logs", nil, raeSession))
	if len(remaining) != 1 {
		t.Fatalf("stage has %d logs after delete, want 1", len(remaining))
	}
}

func TestSharedNicknameCanEditEachOthersLogs(t *testing.T) {
	mux, _ := setupTestServer(t)

	firstRae := login(t, mux, "Rae", false, "")
	created := decodeBody[explog.ExplorationLog](t, doJSON(t, mux, http.MethodPost, "/api/stages/1/logs",
		map[string]string{"content": "found water"}, firstRae))

	// A second session under the same nickname is indistinguishable from
	// the author; this is the accepted ownership-by-name model.
	secondRae := login(t, mux, "Rae", false, "")
	if rr := doJSON(t, mux, http.MethodPut, "/api/logs/"+created.ID,
		map[string]string{"content": "our discovery"}, secondRae); rr.Code != http.StatusOK {
		t.Fatalf("same-nickname edit returned %d, want 200", rr.Code)
	}
}

func TestLogoutClearsSessionAndRegistry(t *testing.T) {
	mux, st := setupTestServer(t)

	session := login(t, mux, "Rae", false, "")
	if got := len(st.Users()); got != 1 {
		t.Fatalf("registry holds %d users after login, want 1", got)
	}

	rr := doJSON(t, mux, http.MethodPost, "/api/auth/logout", nil, session)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout returned %d", rr.Code)
	}

	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookies.AuthCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout should expire the session cookie")
	}

	if got := len(st.Users()); got != 0 {
		t.Fatalf("registry holds %d users after logout, want 0", got)
	}
}

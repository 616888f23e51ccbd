package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"simasosial-backend/internal/apperr"
	"simasosial-backend/internal/audit"
	"simasosial-backend/internal/auth"
	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type fakeUsers struct {
	byID map[uint]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uint]*models.User{
		1: {ID: 1, NamaLengkap: "Admin", Email: "admin@example.com", Password: "hash", Role: models.RoleAdmin, CreatedAt: time.Unix(100, 0)},
		2: {ID: 2, NamaLengkap: "Siti", Email: "siti@example.com", Password: "hash", Role: models.RoleMahasiswa, CreatedAt: time.Unix(200, 0)},
	}}
}

func (f *fakeUsers) ListUsers(context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.byID))
	for _, id := range []uint{2, 1} {
		if u, ok := f.byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) FindUserByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id uint, role models.UserRole) (int64, error) {
	u, ok := f.byID[id]
	if !ok {
		return 0, nil
	}
	u.Role = role
	return 1, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uint, p auth.ProfileFields) (int64, error) {
	for otherID, u := range f.byID {
		if otherID != id && u.Email == p.Email {
			return 0, database.ErrDuplicate
		}
	}
	u, ok := f.byID[id]
	if !ok {
		return 0, nil
	}
	u.NamaLengkap, u.Jurusan, u.NoTelepon, u.Email = p.NamaLengkap, p.Jurusan, p.NoTelepon, p.Email
	return 1, nil
}

type fakeAuditor struct{ entries []audit.LogOptions }

func (a *fakeAuditor) Record(_ context.Context, opts audit.LogOptions) {
	a.entries = append(a.entries, opts)
}

var adminID = auth.Identity{UserID: 1, Nama: "Admin", Role: models.RoleAdmin}

func TestChangeRole(t *testing.T) {
	tests := []struct {
		name   string
		target uint
		role   models.UserRole
		want   apperr.Kind
	}{
		{"promote", 2, models.RoleAdmin, 0},
		{"demote", 2, models.RoleMahasiswa, 0},
		{"self", 1, models.RoleMahasiswa, apperr.KindAuthorization},
		{"unknown role", 2, "superuser", apperr.KindValidation},
		{"empty role", 2, "", apperr.KindValidation},
		{"unknown user", 9, models.RoleAdmin, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUsers()
			aud := &fakeAuditor{}
			svc := NewService(users, aud)

			err := svc.ChangeRole(context.Background(), adminID, tt.target, tt.role)
			if got := apperr.KindOf(err); got != tt.want {
				t.Fatalf("kind = %v, want %v (err %v)", got, tt.want, err)
			}
			if tt.want != 0 {
				if len(aud.entries) != 0 {
					t.Fatalf("audited a rejected change")
				}
				return
			}

			list, _ := svc.ListUsers(context.Background())
			for _, u := range list {
				if u.ID == tt.target && u.Role != tt.role {
					t.Fatalf("role not visible on next list: %s", u.Role)
				}
			}
			if len(aud.entries) != 1 || aud.entries[0].Action != models.AuditActionRoleChange {
				t.Fatalf("audit = %+v", aud.entries)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUsers()
	svc := NewService(users, &fakeAuditor{})
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, adminID, ProfileInput{Nama: " ", Email: "a@b.c"}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("blank nama err = %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, adminID, ProfileInput{Nama: "Admin", Email: "SITI@example.com"}); apperr.KindOf(err) != apperr.KindDuplicate {
		t.Fatalf("email collision err = %v", err)
	}

	u, err := svc.UpdateProfile(ctx, adminID, ProfileInput{Nama: "Admin Baru", Jurusan: "SI", Telepon: "0813", Email: " New@Example.com "})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Email != "new@example.com" || u.NamaLengkap != "Admin Baru" || users.byID[1].Jurusan != "SI" {
		t.Fatalf("profile = %+v", u)
	}
}

func TestHandlers(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	adminTok, _ := tokens.GenerateToken(&models.User{ID: 1, NamaLengkap: "Admin", Role: models.RoleAdmin})
	userTok, _ := tokens.GenerateToken(&models.User{ID: 2, NamaLengkap: "Siti", Role: models.RoleMahasiswa})
	svc := NewService(newFakeUsers(), &fakeAuditor{})

	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(zap.NewNop())})
	grp := app.Group("/api/admin", auth.JWTMiddleware(tokens), auth.RequireRole(models.RoleAdmin))
	grp.Get("/users", ListUsersHandler(svc))
	grp.Put("/users/:id/role", ChangeRoleHandler(svc))
	grp.Get("/profile", GetProfileHandler(svc))
	grp.Put("/profile", UpdateProfileHandler(svc))

	call := func(method, path, body, token string) (int, string) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		raw, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(raw)
	}

	status, raw := call("GET", "/api/admin/users", "", adminTok)
	if status != 200 || strings.Contains(raw, "password") || strings.Contains(raw, "hash") {
		t.Fatalf("list users: %d %s", status, raw)
	}
	var listed []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &listed); err != nil || len(listed) != 2 {
		t.Fatalf("decode users: %v %s", err, raw)
	}

	if status, _ := call("GET", "/api/admin/users", "", userTok); status != 403 {
		t.Fatalf("mahasiswa list users: %d", status)
	}
	if status, raw := call("PUT", "/api/admin/users/1/role", `{"role":"mahasiswa"}`, adminTok); status != 403 {
		t.Fatalf("self role change: %d %s", status, raw)
	}
	if status, raw := call("PUT", "/api/admin/users/2/role", `{"role":"admin"}`, adminTok); status != 200 {
		t.Fatalf("role change: %d %s", status, raw)
	}
	if status, _ := call("PUT", "/api/admin/users/x/role", `{"role":"admin"}`, adminTok); status != 404 {
		t.Fatalf("non-numeric user id: %d", status)
	}

	status, raw = call("GET", "/api/admin/profile", "", adminTok)
	if status != 200 || !strings.Contains(raw, `"email":"admin@example.com"`) {
		t.Fatalf("get profile: %d %s", status, raw)
	}
	if status, raw := call("PUT", "/api/admin/profile", `{"nama":"Admin","email":"siti@example.com"}`, adminTok); status != 409 {
		t.Fatalf("profile collision: %d %s", status, raw)
	}
}

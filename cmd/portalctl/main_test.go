package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pdpi/member-portal/internal/api"
	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/service"
	"github.com/pdpi/member-portal/internal/infrastructure/db/memory"
	"github.com/pdpi/member-portal/internal/pkg/token"
)

func newPortal(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	users := memory.NewUserRepository()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(ctx, &domain.User{
		ID: "m-1", Email: "anggota@pdpi.or.id", Name: "dr. Anggota", PasswordHash: string(hash),
		Role: domain.RoleMember, MemberID: "PDPI-001",
	})
	require.NoError(t, err)

	menus := memory.NewMenuRepository()
	require.NoError(t, menus.Replace(ctx, domain.MenuSidebar, []domain.MenuItem{
		{ID: "dash", Label: "Dashboard", To: "/dashboard", Order: 1, IsActive: true, Roles: domain.RoleList{"member"}},
		{ID: "admin", Label: "Admin", Order: 2, IsActive: true, Roles: domain.RoleList{"admin_pusat"}, Children: []domain.MenuItem{
			{ID: "users", Label: "Users", To: "/admin/users", IsActive: true, Roles: domain.RoleList{"admin_pusat"}},
		}},
		{ID: "home", Label: "Beranda", To: "/", Order: 0, IsActive: true, Roles: domain.RoleList{"public", "member"}},
	}))

	issuer := token.NewIssuer("cli-secret", time.Minute*15, time.Hour)
	e := api.NewRouter(api.Deps{
		Log:       log,
		APIPrefix: "/api/v1",
		Issuer:    issuer,
		Auth:      service.NewAuthService(users, memory.NewTokenStore(), issuer, log),
		News:      service.NewNewsService(memory.NewNewsRepository(), log),
		Agenda:    service.NewAgendaService(memory.NewAgendaRepository(), log),
		Directory: service.NewDirectoryService(memory.NewDirectoryRepository(), log),
		Menus:     service.NewMenuService(menus, log),
		Site:      service.NewSiteService(memory.NewSiteRepository(), log),
		Registry:  prometheus.NewRegistry(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, session string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", srv.URL + "/api/v1", "--session", session}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv := newPortal(t)
	session := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, srv, session, "login", "--email", "anggota@pdpi.or.id", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as dr. Anggota (member)")

	info, err := os.Stat(session)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err = run(t, srv, session, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Email:   anggota@pdpi.or.id")
	assert.Contains(t, out, "Member:  PDPI-001")
	assert.Contains(t, out, "view:documents")

	out, err = run(t, srv, session, "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "Token refreshed")

	out, err = run(t, srv, session, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	_, err = os.Stat(session)
	assert.True(t, os.IsNotExist(err))

	_, err = run(t, srv, session, "whoami")
	assert.ErrorContains(t, err, "not logged in")
}

func TestLoginRejected(t *testing.T) {
	srv := newPortal(t)
	session := filepath.Join(t.TempDir(), "session.json")

	_, err := run(t, srv, session, "login", "--email", "anggota@pdpi.or.id", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = run(t, srv, session, "login", "--email", "anggota@pdpi.or.id")
	assert.ErrorContains(t, err, "required")
}

func TestMenuFollowsSession(t *testing.T) {
	srv := newPortal(t)
	session := filepath.Join(t.TempDir(), "session.json")

	out, err := run(t, srv, session, "menu", "sidebar")
	require.NoError(t, err)
	assert.Equal(t, "- Beranda  /\n", out)

	_, err = run(t, srv, session, "login", "--email", "anggota@pdpi.or.id", "--password", "password123")
	require.NoError(t, err)

	out, err = run(t, srv, session, "menu", "sidebar")
	require.NoError(t, err)
	assert.Equal(t, "- Beranda  /\n- Dashboard  /dashboard\n", out)
	assert.NotContains(t, out, "Admin")
}

func TestPrintMenuIndentsChildren(t *testing.T) {
	var buf bytes.Buffer
	printMenu(&buf, []domain.MenuItem{
		{Label: "Profil", Children: []domain.MenuItem{{Label: "Sejarah", To: "/profil/sejarah"}}},
		{Label: "Jurnal", Href: "https://jurnal.example"},
	}, 0)
	assert.Equal(t, "- Profil\n  - Sejarah  /profil/sejarah\n- Jurnal  https://jurnal.example\n", buf.String())
}

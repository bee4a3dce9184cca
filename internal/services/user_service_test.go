package services

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck-be/internal/database"
)

// newTestDB opens a fresh in-memory database with the schema applied.
// MaxOpenConns is pinned to 1 so the pool cannot hand out a second,
// empty in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndAuthenticateUser(t *testing.T) {
	s := NewUserService(newTestDB(t))

	created, err := s.CreateUser("alice", "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}
	if created.PasswordHash != "" {
		t.Fatal("password hash leaked on create")
	}

	user, err := s.AuthenticateUser("a@x.com", "pw1")
	if err != nil {
		t.Fatalf("AuthenticateUser: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("authenticated id=%s want %s", user.ID, created.ID)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash leaked on authenticate")
	}
}

func TestAuthenticateUser_WrongPassword(t *testing.T) {
	s := NewUserService(newTestDB(t))

	if _, err := s.CreateUser("alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := s.AuthenticateUser("a@x.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateUser_UnknownEmail(t *testing.T) {
	s := NewUserService(newTestDB(t))

	if _, err := s.AuthenticateUser("nobody@x.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v want ErrInvalidCredentials", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := NewUserService(newTestDB(t))

	if _, err := s.CreateUser("alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser("alice2", "a@x.com", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err=%v want ErrEmailTaken", err)
	}
}

func TestLookupPrincipal(t *testing.T) {
	s := NewUserService(newTestDB(t))

	created, err := s.CreateUser("alice", "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	p, err := s.LookupPrincipal(created.ID)
	if err != nil {
		t.Fatalf("LookupPrincipal: %v", err)
	}
	if p.ID != created.ID || p.Username != "alice" || p.Email != "a@x.com" {
		t.Fatalf("principal=%+v", p)
	}

	if _, err := s.LookupPrincipal("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

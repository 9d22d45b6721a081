package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = &out
	a.ExitErrHandler = func(*cli.Context, error) {}
	err := a.Run(append([]string{"ledgerctl"}, args...))
	return strings.TrimSpace(out.String()), err
}

func TestAddressCommand(t *testing.T) {
	out, err := run(t, "address", "--owner", "alice", "--disambiguator", "3", "--tag", "portfolio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := address.NewBlake3Deriver("portfolio").Derive("alice", 3).String()
	if out != want {
		t.Errorf("address = %q, want %q", out, want)
	}

	if _, err := run(t, "address", "--owner", "alice", "--disambiguator", "256"); err == nil {
		t.Error("expected error for disambiguator 256")
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")

	out, err := run(t, "token", "--subject", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	subject, err := middleware.NewAuthenticator("cli-secret").Subject(out)
	if err != nil {
		t.Fatalf("minted token did not verify: %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject = %q, want alice", subject)
	}
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	if _, err := run(t, "token", "--subject", "alice"); err == nil {
		t.Error("expected error without AUTH_JWT_SECRET")
	}
}

func TestGenkeyCommand(t *testing.T) {
	out, err := run(t, "genkey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Error("expected a key")
	}
}

func TestMigrateAndReconcileCommands(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")
	t.Setenv("DB_PATH", t.TempDir()+"/ledger.db")
	t.Setenv("LOG_MODE", "prod")

	out, err := run(t, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.HasPrefix(out, "schema at version") {
		t.Errorf("unexpected migrate output %q", out)
	}

	out, err = run(t, "reconcile", "--fail-on-drift")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if out != "[]" {
		t.Errorf("expected empty result list, got %q", out)
	}
}

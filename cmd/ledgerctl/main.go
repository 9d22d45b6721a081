// Command ledgerctl performs operator tasks against the ledger database:
// applying migrations, running a reconciliation pass, minting development
// tokens and deriving portfolio addresses.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v2"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/address"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/app"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/encryption"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ledgerctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "ledgerctl",
		Usage:   "operate the portfolio ledger database",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: migrateAction,
			},
			{
				Name:   "reconcile",
				Usage:  "recompute every portfolio total and report drift",
				Action: reconcileAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "fail-on-drift", Usage: "exit non-zero if any portfolio is inconsistent"},
				},
			},
			{
				Name:   "token",
				Usage:  "mint an HS256 bearer token for local testing",
				Action: tokenAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Required: true, Usage: "principal placed in the sub claim"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "token lifetime"},
				},
			},
			{
				Name:   "address",
				Usage:  "derive the portfolio address for an owner",
				Action: addressAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Required: true},
					&cli.UintFlag{Name: "disambiguator", Aliases: []string{"d"}, Value: 0},
					&cli.StringFlag{Name: "tag", EnvVars: []string{"ADDRESS_DOMAIN_TAG"}, Value: "portfolio"},
				},
			},
			{
				Name:   "genkey",
				Usage:  "print a new key for DESCRIPTION_ENCRYPTION_KEY",
				Action: genkeyAction,
			},
		},
	}
}

func migrateAction(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	v, err := database.Migrate(c.Context, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "schema at version %d\n", v)
	return nil
}

func reconcileAction(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer logg.Sync()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	services, err := app.Build(db, cfg, logg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Minute)
	defer cancel()
	results, err := services.Reconcile.ReconcileAll(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}

	if c.Bool("fail-on-drift") {
		for _, r := range results {
			if !r.Consistent {
				return cli.Exit("portfolio aggregate drift detected", 2)
			}
		}
	}
	return nil
}

func tokenAction(c *cli.Context) error {
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		return cli.Exit("AUTH_JWT_SECRET is required", 1)
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   c.String("subject"),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.Duration("ttl"))),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

func addressAction(c *cli.Context) error {
	d := c.Uint("disambiguator")
	if d > 255 {
		return cli.Exit("disambiguator must be between 0 and 255", 1)
	}
	addr := address.NewBlake3Deriver(c.String("tag")).Derive(c.String("owner"), address.Disambiguator(d))
	fmt.Fprintln(c.App.Writer, addr.String())
	return nil
}

func genkeyAction(c *cli.Context) error {
	key, err := encryption.GenerateKey()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, key)
	return nil
}

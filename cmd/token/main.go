package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/castinghq/casting/pkg/auth"
	"github.com/castinghq/casting/pkg/config"
	"github.com/castinghq/casting/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

// Mints HS256 bearer tokens for local development. Only useful when the API
// runs with auth_mode=hs256 and the same jwt_secret.
func main() {
	log := logger.New()

	app := &cli.App{
		Name:  "token",
		Usage: "mint a development bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "role",
				Usage: "grant the permissions of a predefined role (" + strings.Join(models.RoleNames(), ", ") + ")",
			},
			&cli.StringSliceFlag{
				Name:    "permission",
				Aliases: []string{"p"},
				Usage:   "grant a permission such as get:actors, repeatable",
			},
			&cli.StringFlag{
				Name:  "subject",
				Value: "dev",
				Usage: "value of the sub claim",
			},
			&cli.StringFlag{
				Name:  "audience",
				Usage: "value of the aud claim, defaults to api_audience when the secret comes from config",
			},
			&cli.DurationFlag{
				Name:  "expiry",
				Value: auth.DefaultTokenExpiry,
				Usage: "how long the token stays valid",
			},
			&cli.StringFlag{
				Name:    "secret",
				EnvVars: []string{"JWT_SECRET"},
				Usage:   "signing secret, defaults to jwt_secret from config",
			},
		},
		Action: func(c *cli.Context) error {
			permissions, err := resolvePermissions(c.String("role"), c.StringSlice("permission"))
			if err != nil {
				return err
			}

			secret := c.String("secret")
			audience := c.String("audience")
			if secret == "" {
				cfg, err := config.New()
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
				if audience == "" {
					audience = cfg.APIAudience
				}
			}

			token, err := auth.GenerateToken(secret, auth.TokenOptions{
				Subject:     c.String("subject"),
				Permissions: permissions,
				Audience:    audience,
				Expiry:      c.Duration("expiry"),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("token error")
	}
}

// resolvePermissions merges a role's permissions with explicit ones, dropping
// duplicates and rejecting strings the API never checks.
func resolvePermissions(role string, extra []string) ([]string, error) {
	granted := &models.Role{}
	if role != "" {
		r, ok := models.LookupRole(role)
		if !ok {
			return nil, errors.Errorf("unknown role %q, expected one of %s", role, strings.Join(models.RoleNames(), ", "))
		}
		granted.Permissions = append(granted.Permissions, r.Permissions...)
	}

	known := &models.Role{Permissions: models.AllPermissions()}
	for _, p := range extra {
		if !known.HasPermission(p) {
			return nil, errors.Errorf("unknown permission %q", p)
		}
		if !granted.HasPermission(p) {
			granted.Permissions = append(granted.Permissions, p)
		}
	}

	if len(granted.Permissions) == 0 {
		return nil, errors.New("pass --role or at least one --permission")
	}
	return granted.Permissions, nil
}

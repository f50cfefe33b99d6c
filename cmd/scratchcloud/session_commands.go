package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/aussiebroadwan/scratchcloud/internal/credstore"
	"github.com/aussiebroadwan/scratchcloud/pkg/scratchsdk"
	"github.com/urfave/cli/v2"
)

func (rt *runtime) login(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("login requires no arguments")
	}

	username := c.String(flagUsername)
	password := c.String(flagPassword)

	if username == "" {
		prompt := &survey.Input{Message: "Username"}
		if err := survey.AskOne(prompt, &username, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	for password == "" {
		prompt := &survey.Password{Message: "Password"}
		if err := survey.AskOne(prompt, &password); err != nil {
			return err
		}
	}

	s, err := rt.client.Login(c.Context, username, password)
	if s == nil {
		return fmt.Errorf("error logging in: %w", err)
	}

	creds := s.Credentials()
	if err := rt.store.Save(c.Context, credstore.Record{
		Username:      s.Username(),
		SessionCookie: creds.SessionCookie,
		CSRFToken:     creds.CSRFToken,
	}); err != nil {
		return fmt.Errorf("error caching credentials: %w", err)
	}

	if err != nil {
		// the cookie is valid; only the identity lookup failed
		fmt.Fprintf(c.App.Writer, "Logged in as %s, but the session is degraded: %s\n", s.Username(), err)
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Logged in as %s.\n", s.Username())
	return nil
}

func (rt *runtime) logout(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("logout requires no arguments")
	}

	s, rec, err := rt.resume(c.Context, c.String(flagUsername))
	if err != nil {
		return err
	}

	keep := c.Bool(flagKeepIdentity)
	if keep {
		if err := s.Wait(c.Context, rt.cfg.WaitTimeout); err != nil {
			rt.logger.Warn("identity unavailable before logout", "error", err)
		}
	}

	confirmed := s.Logout(c.Context, keep)

	if err := rt.store.Delete(c.Context, rec.Username); err != nil {
		return fmt.Errorf("error deleting cached credentials: %w", err)
	}

	if keep && s.Identity().ID != 0 {
		if err := writeIdentity(c.App.Writer, c.String(flagOutput), s); err != nil {
			return err
		}
	}

	if !confirmed {
		fmt.Fprintln(c.App.Writer, "Cached credentials removed; the service did not confirm the logout.")
		return nil
	}
	fmt.Fprintln(c.App.Writer, "Logout was successful.")
	return nil
}

func (rt *runtime) whoami(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("whoami requires no arguments")
	}
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	s, _, err := rt.resume(c.Context, c.String(flagUsername))
	if err != nil {
		return err
	}

	if err := s.Wait(c.Context, rt.cfg.WaitTimeout); err != nil {
		return fmt.Errorf("error resuming session: %w", err)
	}

	return writeIdentity(c.App.Writer, output, s)
}

// resume rebuilds a session from the cached credentials of username, or of
// the most recent login when username is empty. The extended token fetch is
// started but not waited for.
func (rt *runtime) resume(ctx context.Context, username string) (*scratchsdk.Session, credstore.Record, error) {
	var (
		rec credstore.Record
		err error
	)
	if username != "" {
		rec, err = rt.store.Get(ctx, username)
	} else {
		rec, err = rt.store.Latest(ctx)
	}
	if errors.Is(err, credstore.ErrNotFound) {
		return nil, rec, errors.New("no cached login found; please use `scratchcloud login` to continue")
	}
	if err != nil {
		return nil, rec, fmt.Errorf("error reading cached credentials: %w", err)
	}

	s := rt.client.NewSession()
	if err := s.SessionLogin(ctx, rec.SessionCookie, rec.Username, rec.CSRFToken); err != nil {
		return nil, rec, fmt.Errorf("error resuming session: %w", err)
	}
	return s, rec, nil
}

// Package setup is the first-run form that asks for the service URL and the
// session cookie.
package setup

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/notification-center/internal/credential"
	"github.com/nhle/notification-center/internal/model"
)

// Values holds what the user typed.
type Values struct {
	BaseURL       string
	SessionCookie string
	IntervalSec   string
}

// ValuesFrom prefills the form from cfg.
func ValuesFrom(cfg *model.AppConfig) Values {
	return Values{
		BaseURL:     cfg.Service.BaseURL,
		IntervalSec: strconv.Itoa(cfg.Polling.IntervalSec),
	}
}

// NewForm builds the setup form bound to v.
func NewForm(v *Values) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Description("Hospital application URL (e.g., https://registro.example.com)").
				Placeholder("https://registro.example.com").
				Value(&v.BaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Session cookie").
				Description("Value of the sessionid cookie of a logged-in browser session; leave empty to forget it").
				EchoMode(huh.EchoModePassword).
				Value(&v.SessionCookie),
			huh.NewInput().
				Title("Polling interval (seconds)").
				Placeholder("60").
				Value(&v.IntervalSec).
				Validate(validateInterval),
		),
	).WithWidth(72)
}

// Run shows the form on the terminal and returns the entered values.
func Run(cfg *model.AppConfig) (Values, error) {
	v := ValuesFrom(cfg)
	if err := NewForm(&v).Run(); err != nil {
		return Values{}, fmt.Errorf("running setup form: %w", err)
	}
	return v, nil
}

// Apply copies the form values into cfg.
func Apply(v Values, cfg *model.AppConfig) error {
	if err := validateURL(v.BaseURL); err != nil {
		return err
	}
	cfg.Service.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")

	if strings.TrimSpace(v.IntervalSec) != "" {
		if err := validateInterval(v.IntervalSec); err != nil {
			return err
		}
		n, _ := strconv.Atoi(strings.TrimSpace(v.IntervalSec))
		cfg.Polling.IntervalSec = n
	}
	return nil
}

// Save applies v to cfg, writes the config file, and stores the session
// cookie in the keyring. An empty cookie removes the stored session.
func Save(path string, v Values, cfg *model.AppConfig) error {
	if err := Apply(v, cfg); err != nil {
		return err
	}
	if err := model.SaveConfig(path, cfg); err != nil {
		return err
	}

	key := credential.SessionKey(cfg.Service.BaseURL)
	cookie := strings.TrimSpace(v.SessionCookie)
	if cookie == "" {
		err := credential.Delete(key)
		if err != nil && !errors.Is(err, credential.ErrNotFound) {
			return fmt.Errorf("removing session cookie: %w", err)
		}
		return nil
	}
	if err := credential.Set(key, cookie); err != nil {
		return fmt.Errorf("saving session cookie: %w", err)
	}
	return nil
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}

func validateInterval(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("interval must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}

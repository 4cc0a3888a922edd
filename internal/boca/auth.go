package boca

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"boca-cli/internal/access"
	"boca-cli/internal/setup"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_client_login      = "client.login"
	report_client_check_type = "client.check-user-type"
)

// RoleDetector infers the role of the signed in account from its landing
// page.
type RoleDetector interface {
	Detect(doc *goquery.Document) (access.Role, error)
}

// MenuCountDetector classifies the landing page by how many navigation
// entries it has, every role gets a menu of a fixed size.
type MenuCountDetector struct {
	Selector string
	Counts   map[int]access.Role
}

func DefaultDetector() MenuCountDetector {
	return MenuCountDetector{
		Selector: selMenu,
		Counts: map[int]access.Role{
			3:  access.RoleSystem,
			8:  access.RoleTeam,
			16: access.RoleAdmin,
		},
	}
}

func (d MenuCountDetector) Detect(doc *goquery.Document) (access.Role, error) {
	count := doc.Find(d.Selector).Length()
	role, ok := d.Counts[count]
	if !ok {
		return "", &AuthError{
			Kind:   UnexpectedStructure,
			Reason: fmt.Sprintf("landing page has %d %q entries", count, d.Selector),
		}
	}
	return role, nil
}

func (c *Client) isLoginPage(location string) bool {
	parsed, err := url.Parse(location)
	if err != nil {
		return false
	}
	base := strings.TrimRight(c.base.Path, "/")
	switch strings.TrimRight(parsed.Path, "/") {
	case base, base + pathLogin:
		return true
	}
	return false
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login submits the login form and fails with LOGIN_FAILED when BOCA keeps
// the session on the login page.
func (c *Client) Login(ctx context.Context, login setup.Login) error {
	c.tel.ReportDebug("login", login.Username)

	err := c.driver.Navigate(ctx, c.url(pathLogin))
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("open login page: %w", err))
		return err
	}
	err = c.driver.WaitReady(ctx, selLoginName)
	if err != nil {
		return &AuthError{Kind: UnexpectedStructure, Reason: "login form not found", Err: err}
	}
	err = c.fill(ctx, []formField{
		text("name", login.Username),
		text("password", login.Password),
	})
	if err != nil {
		return err
	}
	err = c.driver.Submit(ctx, selLoginPassword)
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("submit: %w", err))
		return err
	}

	err = c.wait(ctx, c.settle)
	if err != nil {
		return err
	}
	location, err := c.driver.Location(ctx)
	if err != nil {
		return err
	}
	if c.isLoginPage(location) {
		c.tel.ReportWarning(report_client_login, "rejected", login.Username)
		return &AuthError{
			Kind:   LoginFailed,
			Reason: fmt.Sprintf("BOCA rejected the credentials of %q", login.Username),
		}
	}

	c.operator = login
	return nil
}

// ResolveRole signs in and infers the role of the account from the landing
// page.
func (c *Client) ResolveRole(ctx context.Context, login setup.Login) (access.Role, error) {
	err := c.Login(ctx, login)
	if err != nil {
		return "", err
	}
	doc, err := c.document(ctx)
	if err != nil {
		return "", err
	}
	role, err := c.detector.Detect(doc)
	if err != nil {
		c.tel.ReportWarning(report_client_login, err)
		return "", err
	}

	c.role = role
	c.tel.ReportInfo("signed in", "user", login.Username, "role", role)
	return role, nil
}

// CheckUserType confirms the session can open the section of role.
func (c *Client) CheckUserType(ctx context.Context, role access.Role) error {
	segment := "/" + role.Segment() + "/"
	err := c.driver.Navigate(ctx, c.url(segment+"index.php"))
	if err != nil {
		return err
	}
	location, err := c.driver.Location(ctx)
	if err != nil {
		return err
	}
	parsed, err := url.Parse(location)
	if err != nil || !strings.Contains(parsed.Path, segment) {
		c.tel.ReportWarning(report_client_check_type, role, location)
		return &AuthError{
			Kind:   InvalidType,
			Reason: fmt.Sprintf("expected the %s section, landed on %s", role, location),
		}
	}
	return nil
}

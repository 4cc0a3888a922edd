package boca

import (
	"context"
	"strings"

	"boca-cli/internal/setup"
)

const (
	report_client_save_user    = "client.save-user"
	report_client_import_users = "client.import-users"
)

var userListing = listing[User]{
	resource: "user",
	path:     pathAdminUser,
	rows:     rowsAdminListing,
	id:       userColumns.Id,
	parse: func(r row) User {
		username := r.cell(userColumns.Username)
		deleted := strings.Contains(username, deletedMarker)
		return User{
			Id:          leadingNumber(r.cell(userColumns.Id)),
			SiteId:      leadingNumber(r.cell(userColumns.Site)),
			Username:    strings.TrimSpace(strings.ReplaceAll(username, deletedMarker, "")),
			Type:        r.cell(userColumns.Type),
			Ip:          r.cell(userColumns.Ip),
			LastLogin:   r.cell(userColumns.LastLogin),
			LastLogout:  r.cell(userColumns.LastLogout),
			Enabled:     isYes(r.cell(userColumns.Enabled)),
			MultiLogin:  isYes(r.cell(userColumns.MultiLogin)),
			FullName:    r.cell(userColumns.FullName),
			Description: r.cell(userColumns.Description),
			Deleted:     deleted,
		}
	},
}

func userKey(ref setup.UserRef) string {
	if ref.SiteId == "" {
		return ref.Id
	}
	return ref.SiteId + "/" + ref.Id
}

func userPage(user User) string {
	return withQuery(pathAdminUser, "site", user.SiteId, "user", user.Id)
}

// findUser looks a user up by number, and by site when ref names one. User
// numbers repeat across sites, without a site the first listed match wins.
func (c *Client) findUser(ctx context.Context, ref setup.UserRef) (User, error) {
	users, err := userListing.all(ctx, c)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Id == ref.Id && (ref.SiteId == "" || u.SiteId == ref.SiteId) {
			return u, nil
		}
	}
	return User{}, notFound("user", userKey(ref))
}

func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	return userListing.all(ctx, c)
}

func (c *Client) GetUser(ctx context.Context, ref setup.UserRef) (User, error) {
	return c.findUser(ctx, ref)
}

func userForm(payload setup.User) form {
	var f form
	f.text(fieldUserSite, payload.SiteId)
	f.text(fieldUserName, payload.Username)
	f.choice(fieldUserType, strings.ToLower(string(payload.Type)))
	f.yesNo(fieldUserEnabled, payload.Enabled)
	f.yesNo(fieldUserMultiLogin, payload.MultiLogin)
	f.text(fieldUserFullName, payload.FullName)
	f.text(fieldUserDescription, payload.Description)
	f.text(fieldUserIp, payload.Ip)
	if payload.Password != "" {
		f = append(f,
			text(fieldUserPassword, payload.Password),
			text(fieldUserPassword2, payload.Password),
		)
	}
	return f
}

// saveUser submits the open user form, BOCA asks for the password of the
// signed in operator on every change.
func (c *Client) saveUser(ctx context.Context, f form, ref setup.UserRef) (User, error) {
	f = append(f, text(fieldUserOperator, c.operator.Password))
	err := c.fill(ctx, f)
	if err != nil {
		return User{}, err
	}
	err = c.driver.Click(ctx, selUserSend)
	if err != nil {
		c.tel.ReportBroken(report_client_save_user, err, userKey(ref))
		return User{}, err
	}
	user, err := c.findUser(ctx, ref)
	if isNotFound(err) {
		return User{}, operationFailed("user", userKey(ref), "user is not listed after saving")
	}
	return user, err
}

// CreateUser saves a new user. Without a siteId the user is created on the
// site the new user form is prefilled with and looked up on that site.
func (c *Client) CreateUser(ctx context.Context, payload setup.User) (User, error) {
	doc, err := c.open(ctx, withQuery(pathAdminUser, "user", "new"))
	if err != nil {
		return User{}, err
	}
	ref := payload.Ref()
	if ref.SiteId == "" {
		ref.SiteId = leadingNumber(formValue(doc, fieldUserSite))
	}
	f := append(form{text(fieldUserNumber, payload.Id)}, userForm(payload)...)
	user, err := c.saveUser(ctx, f, ref)
	if err != nil {
		return User{}, err
	}
	c.tel.ReportInfo("user created", "id", user.Id, "username", user.Username)
	return user, nil
}

func (c *Client) UpdateUser(ctx context.Context, payload setup.User) (User, error) {
	current, err := c.findUser(ctx, payload.Ref())
	if err != nil {
		return User{}, err
	}
	err = c.driver.Navigate(ctx, c.url(userPage(current)))
	if err != nil {
		return User{}, err
	}
	// the site of an existing user is part of its identity
	payload.SiteId = ""
	return c.saveUser(ctx, userForm(payload), current.ref())
}

func (u User) ref() setup.UserRef {
	return setup.UserRef{Id: u.Id, SiteId: u.SiteId}
}

func (c *Client) setUserEnabled(ctx context.Context, ref setup.UserRef, enabled bool) (User, error) {
	current, err := c.findUser(ctx, ref)
	if err != nil {
		return User{}, err
	}
	if current.Enabled == enabled {
		return current, nil
	}
	err = c.driver.Navigate(ctx, c.url(userPage(current)))
	if err != nil {
		return User{}, err
	}
	user, err := c.saveUser(ctx, form{choice(fieldUserEnabled, yesNoValue(enabled))}, current.ref())
	if err != nil {
		return User{}, err
	}
	if user.Enabled != enabled {
		return User{}, operationFailed("user", userKey(ref), "enabled flag did not change")
	}
	return user, nil
}

func (c *Client) EnableUser(ctx context.Context, ref setup.UserRef) (User, error) {
	return c.setUserEnabled(ctx, ref, true)
}

func (c *Client) DisableUser(ctx context.Context, ref setup.UserRef) (User, error) {
	return c.setUserEnabled(ctx, ref, false)
}

// setUserDeleted clicks the delete or restore button of the user form. BOCA
// keeps deleted users listed with a marker.
func (c *Client) setUserDeleted(ctx context.Context, ref setup.UserRef, deleted bool) (User, error) {
	current, err := c.findUser(ctx, ref)
	if err != nil {
		return User{}, err
	}
	if current.Deleted == deleted {
		return current, nil
	}
	err = c.driver.Navigate(ctx, c.url(userPage(current)))
	if err != nil {
		return User{}, err
	}
	button := selUserRestore
	if deleted {
		button = selUserDelete
	}
	err = c.driver.Click(ctx, button)
	if err != nil {
		c.tel.ReportBroken(report_client_save_user, err, userKey(ref))
		return User{}, err
	}

	user, err := c.findUser(ctx, current.ref())
	if err != nil {
		return User{}, err
	}
	if user.Deleted != deleted {
		return User{}, operationFailed("user", userKey(ref), "deleted flag did not change")
	}
	return user, nil
}

func (c *Client) DeleteUser(ctx context.Context, ref setup.UserRef) (User, error) {
	return c.setUserDeleted(ctx, ref, true)
}

func (c *Client) RestoreUser(ctx context.Context, ref setup.UserRef) (User, error) {
	return c.setUserDeleted(ctx, ref, false)
}

func (c *Client) DeleteUsers(ctx context.Context, refs []setup.UserRef) ([]User, error) {
	return each(ctx, refs, c.DeleteUser)
}

func (c *Client) RestoreUsers(ctx context.Context, refs []setup.UserRef) ([]User, error) {
	return each(ctx, refs, c.RestoreUser)
}

func (c *Client) EnableUsers(ctx context.Context, refs []setup.UserRef) ([]User, error) {
	return each(ctx, refs, c.EnableUser)
}

func (c *Client) DisableUsers(ctx context.Context, refs []setup.UserRef) ([]User, error) {
	return each(ctx, refs, c.DisableUser)
}

// ImportUsers uploads a BOCA user import file and returns the users listed
// afterwards.
func (c *Client) ImportUsers(ctx context.Context, path string) ([]User, error) {
	err := c.driver.Navigate(ctx, c.url(pathAdminUser))
	if err != nil {
		return nil, err
	}
	err = c.driver.SetFile(ctx, selUserImportSrc, path)
	if err != nil {
		c.tel.ReportBroken(report_client_import_users, err, path)
		return nil, err
	}
	err = c.driver.Click(ctx, selUserImport)
	if err != nil {
		c.tel.ReportBroken(report_client_import_users, err, path)
		return nil, err
	}
	return c.GetUsers(ctx)
}

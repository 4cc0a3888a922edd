// Package browser is the narrow surface the executors drive a web page
// through, with a Chrome DevTools implementation.
package browser

import (
	"context"
	"net/http"
)

// Driver drives one page of one browser session. Every call blocks until the
// page reached the requested state or the action timed out.
//
// Selectors are CSS selectors matched against the rendered document.
type Driver interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// Back goes back one entry in history and waits for the document.
	Back(ctx context.Context) error
	// WaitReady waits until selector is present in the document.
	WaitReady(ctx context.Context, selector string) error

	// Fill replaces the value of an input or textarea.
	Fill(ctx context.Context, selector, value string) error
	// Select picks the option of a select whose value or label equals choice.
	Select(ctx context.Context, selector, choice string) error
	// SetChecked sets the state of a checkbox or radio input.
	SetChecked(ctx context.Context, selector string, checked bool) error
	// SetFile attaches a local file to a file input.
	SetFile(ctx context.Context, selector, path string) error
	// Click clicks the first element matching selector. Confirmation dialogs
	// opened by the click are accepted.
	Click(ctx context.Context, selector string) error
	// Submit presses enter on selector and waits for the next document.
	Submit(ctx context.Context, selector string) error

	// Location returns the url of the current document.
	Location(ctx context.Context) (string, error)
	// Content returns the serialized html of the current document.
	Content(ctx context.Context) (string, error)
	// Cookies returns the cookies the session holds for the current document.
	Cookies(ctx context.Context) ([]*http.Cookie, error)

	// Download clicks selector, waits for the download it triggers and
	// stores it as dir/filename. An empty filename keeps the name suggested
	// by the server. The final path is returned.
	Download(ctx context.Context, selector, dir, filename string) (string, error)
}

// Session is a Driver that owns a browser process.
type Session interface {
	Driver
	// Close releases the page, its context and the browser.
	Close() error
}

// Opener starts a fresh browser session.
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context) (Session, error)

func (f OpenerFunc) Open(ctx context.Context) (Session, error) {
	return f(ctx)
}

package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"boca-cli/internal/components/assert"
	"boca-cli/internal/components/telemetry"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"golang.org/x/time/rate"
)

const (
	report_chrome_open     = "chrome.open"
	report_chrome_close    = "chrome.close"
	report_chrome_dialog   = "chrome.dialog"
	report_chrome_download = "chrome.download"
)

// ErrNoOption is returned by Select when no option matches.
var ErrNoOption = errors.New("no such option")

type Options struct {
	// Headless runs chrome without a window.
	Headless bool
	// ExecPath overrides the chrome binary, empty means auto detect.
	ExecPath string
	// Timeout bounds every single action.
	Timeout time.Duration
	// StepDelay is the minimum time between two actions.
	StepDelay time.Duration
	// NavigationSettle is how long a click waits for the navigation it may
	// have caused before returning.
	NavigationSettle time.Duration
}

func DefaultOptions() Options {
	return Options{
		Headless:         true,
		Timeout:          5 * time.Second,
		StepDelay:        50 * time.Millisecond,
		NavigationSettle: 2 * time.Second,
	}
}

// Chrome opens chrome sessions through the DevTools protocol.
type Chrome struct {
	opts Options
	tel  telemetry.API
}

func NewChrome(opts Options, tel telemetry.API) Chrome {
	assert.NotNil(tel)
	assert.Positive(opts.Timeout)
	return Chrome{
		opts: opts,
		tel:  telemetry.NewScopedAPI("browser", tel),
	}
}

func (c Chrome) Open(ctx context.Context) (Session, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.opts.Headless),
	)
	if c.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	downloadDir, err := os.MkdirTemp("", "boca-cli-downloads-*")
	if err != nil {
		cancelTab()
		cancelAlloc()
		return nil, err
	}

	limit := rate.Inf
	if c.opts.StepDelay > 0 {
		limit = rate.Every(c.opts.StepDelay)
	}

	s := &chromeSession{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        c.opts,
		tel:         c.tel,
		limiter:     rate.NewLimiter(limit, 1),
		downloadDir: downloadDir,
		loads:       make(chan struct{}, 8),
		begins:      make(chan *browser.EventDownloadWillBegin, 8),
		progress:    make(chan *browser.EventDownloadProgress, 64),
	}
	chromedp.ListenTarget(tabCtx, s.onEvent)

	// the first Run starts the browser
	err = chromedp.Run(
		tabCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(downloadDir).
			WithEventsEnabled(true),
	)
	if err != nil {
		c.tel.ReportBroken(report_chrome_open, err)
		s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	c.tel.ReportDebug("browser started", downloadDir)
	return s, nil
}

type chromeSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	opts    Options
	tel     telemetry.API
	limiter *rate.Limiter

	downloadDir string
	loads       chan struct{}
	begins      chan *browser.EventDownloadWillBegin
	progress    chan *browser.EventDownloadProgress

	closeOnce sync.Once
}

func (s *chromeSession) onEvent(ev any) {
	switch ev := ev.(type) {
	case *page.EventJavascriptDialogOpening:
		s.tel.ReportDebug("accepting dialog", ev.Type, ev.Message)
		// listeners must not block the event loop
		go func() {
			err := chromedp.Run(s.ctx, page.HandleJavaScriptDialog(true))
			if err != nil {
				s.tel.ReportWarning(report_chrome_dialog, err)
			}
		}()
	case *page.EventLoadEventFired:
		select {
		case s.loads <- struct{}{}:
		default:
		}
	case *browser.EventDownloadWillBegin:
		select {
		case s.begins <- ev:
		default:
		}
	case *browser.EventDownloadProgress:
		select {
		case s.progress <- ev:
		default:
		}
	}
}

// run executes actions bounded by the per action timeout and the caller's ctx.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	err := s.limiter.Wait(ctx)
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func drain[T any](ch chan T) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// settle waits a little for a load event caused by the previous action.
func (s *chromeSession) settle(ctx context.Context) {
	if s.opts.NavigationSettle <= 0 {
		return
	}
	timer := time.NewTimer(s.opts.NavigationSettle)
	defer timer.Stop()
	select {
	case <-s.loads:
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	s.tel.ReportDebug("navigate", url)
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *chromeSession) Back(ctx context.Context) error {
	err := s.run(ctx,
		chromedp.NavigateBack(),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate back: %w", err)
	}
	return nil
}

func (s *chromeSession) WaitReady(ctx context.Context, selector string) error {
	err := s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) Fill(ctx context.Context, selector, value string) error {
	err := s.run(ctx, chromedp.SetValue(selector, value, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

const selectScript = `(function(selector, choice) {
	const el = document.querySelector(selector);
	if (!el) return false;
	for (const option of el.options) {
		if (option.value === choice || option.text.trim() === choice) {
			el.value = option.value;
			el.dispatchEvent(new Event("change", {bubbles: true}));
			return true;
		}
	}
	return false;
})(%s, %s)`

const checkScript = `(function(selector, checked) {
	const el = document.querySelector(selector);
	if (!el) return false;
	el.checked = checked;
	el.dispatchEvent(new Event("change", {bubbles: true}));
	return true;
})(%s, %t)`

func jsString(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}

func (s *chromeSession) Select(ctx context.Context, selector, choice string) error {
	var found bool
	err := s.run(ctx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(selectScript, jsString(selector), jsString(choice)), &found),
	)
	if err != nil {
		return fmt.Errorf("select %q in %s: %w", choice, selector, err)
	}
	if !found {
		return fmt.Errorf("select %q in %s: %w", choice, selector, ErrNoOption)
	}
	return nil
}

func (s *chromeSession) SetChecked(ctx context.Context, selector string, checked bool) error {
	var found bool
	err := s.run(ctx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(checkScript, jsString(selector), checked), &found),
	)
	if err != nil {
		return fmt.Errorf("check %s: %w", selector, err)
	}
	if !found {
		return fmt.Errorf("check %s: element not found", selector)
	}
	return nil
}

func (s *chromeSession) SetFile(ctx context.Context, selector, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	_, err = os.Stat(abs)
	if err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	err = s.run(ctx, chromedp.SetUploadFiles(selector, []string{abs}, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("attach %s to %s: %w", path, selector, err)
	}
	return nil
}

func (s *chromeSession) Click(ctx context.Context, selector string) error {
	drain(s.loads)
	err := s.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	s.settle(ctx)
	return nil
}

func (s *chromeSession) Submit(ctx context.Context, selector string) error {
	drain(s.loads)
	err := s.run(ctx, chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("submit %s: %w", selector, err)
	}
	s.settle(ctx)
	return s.WaitReady(ctx, "body")
}

func (s *chromeSession) Location(ctx context.Context) (string, error) {
	var location string
	err := s.run(ctx, chromedp.Location(&location))
	return location, err
}

func (s *chromeSession) Content(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

func (s *chromeSession) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	var cookies []*network.Cookie
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	out := make([]*http.Cookie, len(cookies))
	for i, c := range cookies {
		out[i] = &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
	}
	return out, nil
}

func (s *chromeSession) Download(ctx context.Context, selector, dir, filename string) (string, error) {
	drain(s.begins)
	drain(s.progress)

	err := s.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("click download %s: %w", selector, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var begin *browser.EventDownloadWillBegin
	select {
	case begin = <-s.begins:
	case <-waitCtx.Done():
		s.tel.ReportWarning(report_chrome_download, "download never started", selector)
		return "", fmt.Errorf("wait for download of %s: %w", selector, waitCtx.Err())
	}

	for {
		select {
		case ev := <-s.progress:
			if ev.GUID != begin.GUID {
				continue
			}
			switch ev.State {
			case browser.DownloadProgressStateCanceled:
				return "", fmt.Errorf("download of %s was canceled", begin.URL)
			case browser.DownloadProgressStateCompleted:
				if filename == "" {
					filename = begin.SuggestedFilename
				}
				return moveDownload(filepath.Join(s.downloadDir, begin.GUID), dir, filename)
			}
		case <-waitCtx.Done():
			return "", fmt.Errorf("wait for download of %s: %w", begin.URL, waitCtx.Err())
		}
	}
}

func moveDownload(from, dir, filename string) (string, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}
	to := filepath.Join(dir, filepath.Base(filename))
	err = os.Rename(from, to)
	if err == nil {
		return to, nil
	}

	// the temp dir may live on another device
	contents, err := os.ReadFile(from)
	if err != nil {
		return "", err
	}
	err = os.WriteFile(to, contents, 0644)
	if err != nil {
		return "", err
	}
	os.Remove(from)
	return to, nil
}

func (s *chromeSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = chromedp.Cancel(s.ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		s.cancelTab()
		s.cancelAlloc()
		if rmErr := os.RemoveAll(s.downloadDir); rmErr != nil {
			s.tel.ReportWarning(report_chrome_close, rmErr)
		}
		if err != nil {
			s.tel.ReportWarning(report_chrome_close, err)
		}
	})
	return err
}

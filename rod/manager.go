package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/offerdoc"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of pages opened before the browser is
// relaunched.
const DefaultMaxPages = 75

// BrowserManager owns a headless Chrome process and relaunches it every
// maxPages pages, since Chrome's memory use keeps growing with each
// page it renders. BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	maxPages int
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages opened before relaunching.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome browser. Close must be
// called when the manager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Page opens a blank tab that identifies itself with userAgent and the
// Indian English locale. The caller closes the page.
func (bm *BrowserManager) Page(userAgent string) (*rod.Page, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "browser closed")
	}
	if bm.pages >= bm.maxPages {
		bm.relaunch()
	}
	bm.pages++

	page, err := bm.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, offerdoc.Errorf(offerdoc.EFETCH, "opening page: %v", err)
	}
	err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      userAgent,
		AcceptLanguage: offerdoc.DefaultAcceptLanguage,
	})
	if err != nil {
		_ = page.Close()
		return nil, offerdoc.Errorf(offerdoc.EFETCH, "setting user agent: %v", err)
	}
	return page, nil
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return shutdown(bm.browser, bm.launcher)
}

// LauncherPID returns the process ID of the running browser, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed || bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// relaunch swaps in a fresh browser. The old one is kept if the launch
// fails. Must be called with mu held.
func (bm *BrowserManager) relaunch() {
	browser, l, err := launch()
	if err != nil {
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, l
	bm.pages = 0
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("lang", "en-IN").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}

package dncl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"dnclcli/internal/config"
)

const (
	// checkURL is the consumer registration check page of the National DNCL.
	checkURL = "https://lnnte-dncl.gc.ca/en/Consumer/Check-your-registration"

	phoneInputSel   = `#phone`
	submitButtonSel = `button.btn.btn-primary[type='submit']`

	captchaPollInterval = time.Second
	resultPollInterval  = 500 * time.Millisecond
)

// captchaSolvedJS reports whether the hidden CAPTCHA response field has been
// filled, which is how a human solve becomes visible to the page.
const captchaSolvedJS = `(() => {
	const response = document.querySelector('[name="g-recaptcha-response"]');
	if (response && response.value && response.value.length > 0) {
		return true;
	}
	const hResponse = document.querySelector('[name="h-captcha-response"]');
	if (hResponse && hResponse.value && hResponse.value.length > 0) {
		return true;
	}
	return false;
})()`

// captchaPresentJS detects a reCAPTCHA or hCaptcha widget on the page.
const captchaPresentJS = `(() =>
	document.querySelector("iframe[src*='recaptcha']") !== null ||
	document.querySelector(".g-recaptcha") !== null ||
	document.querySelector("iframe[src*='hcaptcha']") !== null
)()`

// Checker drives a single Chrome session through the registry lookup flow,
// one number at a time. It is not safe for concurrent use; the tool is
// deliberately serial.
type Checker struct {
	cfg    config.BrowserConfig
	lookup config.LookupConfig
	logger *slog.Logger

	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc

	// attempt runs one pass of the page flow, overridable in tests.
	attempt func(ctx context.Context, phone string) (Result, error)
}

// NewChecker creates a checker with the given browser and lookup settings.
func NewChecker(cfg config.BrowserConfig, lookup config.LookupConfig, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Checker{cfg: cfg, lookup: lookup, logger: logger}
	c.attempt = c.verifyOnce
	return c
}

// Start launches the browser. The session stays open across numbers so the
// human only deals with one window.
func (c *Checker) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.cfg.Headless),
		chromedp.WindowSize(c.cfg.WindowWidth, c.cfg.WindowHeight),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so a missing Chrome install
	// fails here instead of mid-run.
	if err := chromedp.Run(browserCtx); err != nil {
		browserStop()
		allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	c.allocCancel = allocCancel
	c.browserCtx = browserCtx
	c.browserStop = browserStop

	c.logger.Info("Browser started", slog.Bool("headless", c.cfg.Headless))
	return nil
}

// Close tears down the browser session.
func (c *Checker) Close() {
	if c.browserStop != nil {
		c.browserStop()
		c.browserStop = nil
	}
	if c.allocCancel != nil {
		c.allocCancel()
		c.allocCancel = nil
	}
}

// Verify runs the full lookup flow for one normalized number. Interaction
// failures are retried per the lookup config; a CAPTCHA wait timeout is
// terminal for the number and comes back Unknown.
func (c *Checker) Verify(ctx context.Context, phone string) Result {
	if c.browserCtx == nil {
		return Result{Phone: phone, Status: StatusUnknown, Err: "browser not started"}
	}

	attempts := c.lookup.Retries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return Result{Phone: phone, Status: StatusUnknown, Err: ctx.Err().Error()}
		}

		c.logger.Info("Verifying number",
			slog.String("phone", phone),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts))

		result, err := c.attempt(ctx, phone)
		if err == nil {
			result.Phone = phone
			return result
		}

		if err == errCaptchaTimeout {
			return Result{Phone: phone, Status: StatusUnknown, Err: "CAPTCHA solution timeout"}
		}

		lastErr = err
		c.logger.Warn("Verification attempt failed",
			slog.String("phone", phone),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}

	return Result{
		Phone:  phone,
		Status: StatusUnknown,
		Err:    fmt.Sprintf("failed after %d attempts: %v", attempts, lastErr),
	}
}

var errCaptchaTimeout = fmt.Errorf("captcha wait timed out")

// verifyOnce performs one pass of the page flow: navigate, fill, next,
// human CAPTCHA pause, check, scrape.
func (c *Checker) verifyOnce(ctx context.Context, phone string) (Result, error) {
	if err := c.runWithTimeout(ctx,
		chromedp.Navigate(checkURL),
		chromedp.WaitVisible(phoneInputSel, chromedp.ByQuery),
	); err != nil {
		return Result{}, fmt.Errorf("form did not load: %w", err)
	}

	if err := c.runWithTimeout(ctx,
		chromedp.Clear(phoneInputSel, chromedp.ByQuery),
		chromedp.SendKeys(phoneInputSel, phone, chromedp.ByQuery),
	); err != nil {
		return Result{}, fmt.Errorf("failed to enter phone number: %w", err)
	}
	c.logger.Info("Entered phone number", slog.String("phone", phone))

	if err := c.runWithTimeout(ctx,
		chromedp.Click(submitButtonSel, chromedp.ByQuery),
	); err != nil {
		return Result{}, fmt.Errorf("failed to click next: %w", err)
	}

	if err := c.waitForCaptcha(ctx); err != nil {
		return Result{}, err
	}

	if err := c.runWithTimeout(ctx,
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Click(submitButtonSel, chromedp.ByQuery),
	); err != nil {
		return Result{}, fmt.Errorf("failed to click check registration: %w", err)
	}

	body, err := c.waitForResult(ctx)
	if err != nil {
		return Result{}, err
	}

	status := ClassifyBody(body)
	raw := body
	if len(raw) > 500 {
		raw = raw[:500]
	}

	result := Result{Status: status, RawMessage: raw}
	if status == StatusUnknown {
		result.Err = "could not determine registration status from page content"
		c.logger.Warn("Result patterns not matched", slog.String("page_text", raw))
	} else {
		c.logger.Info("Lookup result", slog.String("status", string(status)))
	}

	return result, nil
}

// waitForCaptcha pauses until the human solves the CAPTCHA, polling the
// hidden response field once per second. Pages without a widget pass
// straight through.
func (c *Checker) waitForCaptcha(ctx context.Context) error {
	var present bool
	if err := c.runWithTimeout(ctx,
		chromedp.Sleep(time.Second),
		chromedp.Evaluate(captchaPresentJS, &present),
	); err != nil {
		return fmt.Errorf("failed to inspect page for captcha: %w", err)
	}

	if !present {
		c.logger.Info("No CAPTCHA detected on page, proceeding")
		return nil
	}

	c.logger.Info("CAPTCHA detected - waiting for a human to solve it",
		slog.Duration("timeout", c.cfg.CaptchaTimeout))
	fmt.Println("⚠️  PLEASE SOLVE THE CAPTCHA IN THE BROWSER WINDOW ⚠️")

	deadline := time.Now().Add(c.cfg.CaptchaTimeout)
	ticker := time.NewTicker(captchaPollInterval)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		var solved bool
		if err := c.runWithTimeout(ctx, chromedp.Evaluate(captchaSolvedJS, &solved)); err != nil {
			c.logger.Debug("CAPTCHA poll failed", slog.String("error", err.Error()))
			continue
		}
		if solved {
			c.logger.Info("CAPTCHA solved, proceeding")
			return nil
		}
	}

	c.logger.Error("CAPTCHA solution timeout")
	return errCaptchaTimeout
}

// waitForResult polls the page body until it shows a verdict or the action
// timeout elapses, then returns the body text.
func (c *Checker) waitForResult(ctx context.Context) (string, error) {
	deadline := time.Now().Add(c.cfg.ActionTimeout)

	var body string
	for time.Now().Before(deadline) {
		if err := c.runWithTimeout(ctx,
			chromedp.Text(`body`, &body, chromedp.ByQuery),
		); err != nil {
			return "", fmt.Errorf("failed to read page text: %w", err)
		}

		if HasResultIndicator(body) {
			return body, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(resultPollInterval):
		}
	}

	return "", fmt.Errorf("result page did not load within %s", c.cfg.ActionTimeout)
}

// runWithTimeout executes chromedp actions against the browser tab with the
// configured action timeout, honoring the caller's cancellation.
func (c *Checker) runWithTimeout(ctx context.Context, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(c.browserCtx, c.cfg.ActionTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(tctx, actions...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/sixtysix/internal/constants"
	"github.com/julianstephens/sixtysix/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

const trayExecutable = "sixtysix-tray"

// Tray delivers due notifications to the desktop tray companion over its
// local webhook.
type Tray struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

type WebhookPayload struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewTray() *Tray {
	return &Tray{
		client:     &http.Client{Timeout: 5 * time.Second},
		retries:    constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

// Deliver shows req through the tray app, retrying transient failures.
func (t *Tray) Deliver(ctx context.Context, req Request) error {
	trayConfigDir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	ep, err := locateTray(filepath.Join(trayConfigDir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{
		Title:      req.Title,
		Text:       req.Body,
		DurationMs: constants.NotificationDurationMs,
	}

	var lastErr error
	for attempt := 1; attempt <= t.retries; attempt++ {
		if lastErr = t.send(ctx, ep, payload); lastErr == nil {
			logger.Debug("Notification delivered", "identifier", req.Identifier, "attempt", attempt)
			return nil
		}
		logger.Debug("Notification delivery failed", "identifier", req.Identifier, "attempt", attempt, "error", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.retryDelay):
		}
	}
	return fmt.Errorf("failed to deliver %s after %d attempts: %w", req.Identifier, t.retries, lastErr)
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// settings.json may point the lockfile somewhere else
	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if err := json.Unmarshal(data, &store); err == nil {
			if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
				return *store.Settings.LockfileDir, nil
			}
		}
	}

	return trayConfigDir, nil
}

// endpoint is the tray's local webhook as advertised in its lockfile.
type endpoint struct {
	port   int
	pid    int
	secret string
}

func (e endpoint) url() string {
	return "http://127.0.0.1:" + strconv.Itoa(e.port)
}

// parseLockfile decodes the tray's "port|pid|secret" lockfile.
func parseLockfile(content string) (endpoint, error) {
	fields := strings.Split(strings.TrimSpace(content), "|")
	if len(fields) != 3 {
		return endpoint{}, errors.New("lockfile is malformed")
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var ep endpoint
	var err error
	if fields[0] == "" {
		return endpoint{}, errors.New("port in lockfile is empty")
	}
	if ep.port, err = strconv.Atoi(fields[0]); err != nil {
		return endpoint{}, errors.New("invalid port number in lockfile")
	}
	if ep.port < 1 || ep.port > 65535 {
		return endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", ep.port)
	}
	if ep.pid, err = strconv.Atoi(fields[1]); err != nil {
		return endpoint{}, errors.New("invalid process ID in lockfile")
	}
	if ep.secret = fields[2]; ep.secret == "" {
		return endpoint{}, errors.New("secret in lockfile is empty")
	}
	return ep, nil
}

// locateTray reads the lockfile and checks that its pid is a live tray
// process, so a stale lockfile never receives the secret.
func locateTray(lockfilePath string) (endpoint, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return endpoint{}, errors.New("tray app is not running")
	}
	ep, err := parseLockfile(string(content))
	if err != nil {
		return endpoint{}, err
	}

	process, err := findProcessFunc(ep.pid)
	if err != nil || process == nil {
		return endpoint{}, errors.New("tray process not running")
	}
	if !strings.HasPrefix(process.Executable(), trayExecutable) {
		return endpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", ep.pid, trayExecutable, process.Executable())
	}
	return ep, nil
}

func (t *Tray) send(ctx context.Context, ep endpoint, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.url(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Sixtysix-Secret", ep.secret)

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("tray rejected notification with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}

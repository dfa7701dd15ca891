package session

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openedx/bok-choy/pkg/browserenv"
	"github.com/openedx/bok-choy/pkg/env"
	"github.com/openedx/bok-choy/pkg/logging"
)

// LogCategories are the driver log categories saved by SaveDriverLogs.
var LogCategories = []string{"browser", "driver", "client", "server"}

// ArtifactWriter saves screenshots and driver logs from a session.
type ArtifactWriter struct {
	screenshotDir string
	logDir        string
	logger        *logging.Logger
}

// NewArtifactWriter reads SCREENSHOT_DIR and SELENIUM_DRIVER_LOG_DIR from src.
// Unset directories mean the current working directory.
func NewArtifactWriter(src env.Source, logger *logging.Logger) *ArtifactWriter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ArtifactWriter{
		screenshotDir: src.Get(browserenv.EnvScreenshotDir, ""),
		logDir:        src.Get(browserenv.EnvDriverLogDir, ""),
		logger:        logger,
	}
}

// SaveScreenshot writes <SCREENSHOT_DIR>/<name>.png. A session without
// screenshot support is logged and skipped.
func (w *ArtifactWriter) SaveScreenshot(s Session, name string) error {
	shooter, ok := s.(Screenshotter)
	if !ok {
		w.logger.Warnf("Browser does not support screenshots. Could not save screenshot '%s'", name)
		return nil
	}

	path := filepath.Join(w.screenshotDir, name+".png")
	if err := shooter.SaveScreenshot(path); err != nil {
		return fmt.Errorf("failed to save screenshot %s: %w", name, err)
	}
	return nil
}

// SaveDriverLogs writes <SELENIUM_DRIVER_LOG_DIR>/<prefix>_<category>.log for
// each of LogCategories, one JSON object per line.
//
// A category the session cannot provide, for whatever reason, is logged and
// skipped. Failures writing a log file are returned after every category has
// been attempted.
func (w *ArtifactWriter) SaveDriverLogs(s Session, prefix string) error {
	source, _ := s.(LogSource)

	var errs []error
	for _, category := range LogCategories {
		if source == nil {
			w.warnCategory(category, errors.New("session exposes no logs"))
			continue
		}

		entries, err := source.Logs(category)
		if err != nil {
			w.warnCategory(category, err)
			continue
		}

		path := filepath.Join(w.logDir, fmt.Sprintf("%s_%s.log", prefix, category))
		if err := writeLogFile(path, entries); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *ArtifactWriter) warnCategory(category string, err error) {
	w.logger.Warnf("Could not save browser log of type '%s'. It may be that the browser does not support it. (%v)", category, err)
}

func writeLogFile(path string, entries []LogEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	out := bufio.NewWriter(file)
	encoder := json.NewEncoder(out)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			file.Close()
			return fmt.Errorf("failed to encode log entry: %w", err)
		}
	}

	if err := out.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write log file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Package debug provides frame capture utilities.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// ScreenshotCapture writes rendered frames to PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	if prefix == "" {
		prefix = "frame"
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// OutputDir returns the output directory.
func (sc *ScreenshotCapture) OutputDir() string {
	return sc.outputDir
}

// FrameFilename returns the file a frame index is written to.
func (sc *ScreenshotCapture) FrameFilename(frame int) string {
	return sc.join(fmt.Sprintf("%s_%04d.png", sc.prefix, frame))
}

// GenerateFilename generates a timestamped screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return sc.join(fmt.Sprintf("%s_%s.png", sc.prefix, timestamp))
}

func (sc *ScreenshotCapture) join(name string) string {
	if sc.outputDir != "" {
		return filepath.Join(sc.outputDir, name)
	}
	return name
}

// CaptureFrame writes img as the numbered frame and returns the file path.
func (sc *ScreenshotCapture) CaptureFrame(img image.Image, frame int) (string, error) {
	filename := sc.FrameFilename(frame)
	if err := sc.write(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// CaptureFromImage writes img under a timestamped name.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	filename := sc.GenerateFilename()
	if err := sc.write(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

func (sc *ScreenshotCapture) write(filename string, img image.Image) error {
	if img == nil {
		return errors.New("nil image")
	}

	// Create output directory if needed
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return errors.Wrap(err, "creating output dir")
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return errors.Wrap(err, "encoding PNG")
	}
	return file.Close()
}

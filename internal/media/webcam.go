package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// DefaultCameraDevice is the first V4L2 camera node on a Linux host.
const DefaultCameraDevice = "/dev/video0"

const defaultCaptureCommand = "fswebcam"

// Webcam captures a still frame from a camera device by shelling out to a
// capture tool (fswebcam-compatible flags).
//
// The device node and the tool are probed before anything else so a
// camera-less host fails fast instead of presenting a broken capture flow.
type Webcam struct {
	Device  string
	Command string
}

// NewWebcam returns a live-camera capture for the given device node and
// capture binary; empty arguments fall back to the defaults.
func NewWebcam(device, command string) *Webcam {
	if device == "" {
		device = DefaultCameraDevice
	}
	if command == "" {
		command = defaultCaptureCommand
	}
	return &Webcam{Device: device, Command: command}
}

// Capture implements Capture.
func (w *Webcam) Capture(ctx context.Context) (*Photo, error) {
	if _, err := os.Stat(w.Device); err != nil {
		return nil, fmt.Errorf("camera %s: %w", w.Device, ErrSourceUnavailable)
	}
	bin, err := exec.LookPath(w.Command)
	if err != nil {
		return nil, fmt.Errorf("capture tool %s: %w", w.Command, ErrSourceUnavailable)
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-d", w.Device, "-q", "--no-banner", "--save", "-")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("capture frame: %w", err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("capture frame: %s produced no image", w.Command)
	}

	now := time.Now()
	return &Photo{
		Data:    out.Bytes(),
		Name:    fmt.Sprintf("capture-%d.jpg", now.Unix()),
		TakenAt: now,
	}, nil
}

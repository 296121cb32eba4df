package chart

import (
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

// SystemViewer opens an image with the desktop's default viewer.
type SystemViewer struct {
	// command builds the opener for a path; replaced in tests.
	command func(path string) *exec.Cmd
}

func NewSystemViewer() *SystemViewer {
	return &SystemViewer{command: openCommand}
}

// Show starts the viewer and returns without waiting for it to exit.
func (v *SystemViewer) Show(path string) error {
	cmd := v.command(path)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openCommand(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

package bootstrap

import (
	"fmt"
	"os"

	coreconfig "github.com/m3rciful/pdfbot/core/config"
	"github.com/m3rciful/pdfbot/core/logger"
)

// Options control the bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	PrepareDir func(path string) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	// WorkDir is the root of the transient per-user workspace.
	WorkDir string
}

// Run initializes the logger and prepares the transient workspace root.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	prepare := opts.PrepareDir
	if prepare == nil {
		prepare = func(path string) error { return os.MkdirAll(path, 0o755) }
	}
	dir := opts.Config.Storage.Dir
	if err := prepare(dir); err != nil {
		return nil, fmt.Errorf("bootstrap: workspace initialization failed: %w", err)
	}

	return &Result{WorkDir: dir}, nil
}

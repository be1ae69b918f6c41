// Package storage manages the transient filesystem workspace: one
// subdirectory per active user holding downloaded images and the generated
// document until cleanup.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"log/slog"

	"github.com/m3rciful/pdfbot/core/logger"
)

// Workspace is rooted at a single directory; user subtrees are namespaced by
// user id so concurrent sessions never collide.
type Workspace struct {
	root string
}

// New creates the workspace root if needed.
func New(root string) (*Workspace, error) {
	if root == "" {
		return nil, fmt.Errorf("storage: empty workspace root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Workspace{root: root}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// UserDir returns the per-user subdirectory path without creating it.
func (w *Workspace) UserDir(userID int64) string {
	return filepath.Join(w.root, strconv.FormatInt(userID, 10))
}

// EnsureUser creates the per-user subdirectory.
func (w *Workspace) EnsureUser(userID int64) (string, error) {
	dir := w.UserDir(userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create user dir: %w", err)
	}
	return dir, nil
}

// SaveImage stores the next image for a user. seq preserves arrival order
// and becomes the page order of the final document.
func (w *Workspace) SaveImage(ctx context.Context, userID int64, seq int, r io.Reader) (string, error) {
	dir, err := w.EnsureUser(userID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%03d.jpg", seq))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storage: create image file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: write image: %w", err)
	}

	logger.Debug(ctx, "storage", "image.saved",
		slog.Int64("user_id", userID),
		slog.String("file", filepath.Base(path)),
		slog.Int64("bytes", n),
	)
	return path, nil
}

// WriteArtifact stores the rendered document under the user's subtree and
// returns its path. The name carries a uuid so a stale artifact from a
// replaced session can never be confused with the fresh one.
func (w *Workspace) WriteArtifact(ctx context.Context, userID int64, data []byte) (string, error) {
	dir, err := w.EnsureUser(userID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("output-%s.pdf", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write artifact: %w", err)
	}

	logger.Debug(ctx, "storage", "artifact.written",
		slog.Int64("user_id", userID),
		slog.String("file", filepath.Base(path)),
		slog.Int("bytes", len(data)),
	)
	return path, nil
}

// Cleanup removes the whole per-user subtree. Removing an absent subtree is
// not an error, so cleanup may be called unconditionally.
func (w *Workspace) Cleanup(ctx context.Context, userID int64) error {
	dir := w.UserDir(userID)
	if err := os.RemoveAll(dir); err != nil {
		logger.Error(ctx, "storage", "cleanup.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("storage: cleanup: %w", err)
	}
	logger.Debug(ctx, "storage", "cleanup.done",
		slog.Int64("user_id", userID),
	)
	return nil
}

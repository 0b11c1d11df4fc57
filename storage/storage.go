// Package storage persists uploaded stock logos.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// LogoStore saves a logo under name and returns the URL it is served from.
type LogoStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// LogoFileName derives the stored file name from the stock id and the
// extension of the uploaded file, e.g. "stockLogo7.png".
func LogoFileName(stockID uint, original string) string {
	return fmt.Sprintf("stockLogo%d%s", stockID, strings.ToLower(filepath.Ext(original)))
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(name, "/")
}

package datasets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/attendancestats/internal/sites"
)

type ID string

func NewID() ID {
	return ID(gonanoid.Must())
}

// Dataset is an uploaded attendance export.
type Dataset struct {
	ID         ID         `json:"id"`
	Site       sites.Site `json:"site"`
	Name       string     `json:"name"`
	Content    string     `json:"content"`
	UploadedAt time.Time  `json:"uploaded_at"`
}

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidSite = errors.New("invalid dataset")
)

// StaticPath returns the path of the pre-stored export of site, named <site>-<period>.csv.
func StaticPath(dataDir string, site sites.Site, period string) (string, error) {
	if !site.HasStaticDataset() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSite, site)
	}
	return filepath.Join(dataDir, fmt.Sprintf("%s-%s.csv", site, period)), nil
}

// Static reads the pre-stored export of site.
func Static(dataDir string, site sites.Site, period string) (string, error) {
	path, err := StaticPath(dataDir, site, period)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

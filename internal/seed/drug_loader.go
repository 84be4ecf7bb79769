package seed

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"drugdex/m/internal/catalog"
)

// LoadDrugs fills the catalog from the JSON array at path. On failure the
// catalog is left empty and the error is returned for the caller to report.
func LoadDrugs(store *catalog.Store, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		_ = store.Load(nil)
		logrus.WithError(err).WithField("path", path).Error("unable to load drug catalog; make sure the file exists next to the server")
		return 0, fmt.Errorf("open drug catalog %s: %w", path, err)
	}
	defer file.Close()

	if err := store.LoadJSON(file); err != nil {
		logrus.WithError(err).WithField("path", path).Error("unable to parse drug catalog")
		return 0, err
	}

	rows := store.Len()
	logrus.WithField("path", path).Infof("seeded drug catalog with %d rows", rows)
	return rows, nil
}

// Package upload persists multipart file fields to local disk under
// collision-resistant names. Stored files are served read-only under
// /uploads/.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Save writes the uploaded file into dir under a timestamp-prefixed
// variant of its original name and returns the stored filename. Any path
// components in the client-supplied name are stripped.
func Save(dir string, fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "unable to create upload dir")
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(filepath.Clean(fh.Filename)))
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "unable to open uploaded file")
	}
	defer src.Close()
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(err, "unable to create stored file")
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrapf(err, "unable to write stored file %s", name)
	}
	return name, nil
}

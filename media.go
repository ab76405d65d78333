package hyperlab

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kuttiproject/kuttilog"
	"github.com/kuttiproject/workspace"
)

// InstallerImagePresent reports whether the installation media exists
// at the given path. The file is never opened or parsed.
func InstallerImagePresent(imagepath string) bool {
	_, err := os.Stat(imagepath)
	return err == nil
}

// ImportInstallerImage copies an ISO file from a local path to the
// configured installer image location, creating the destination
// directory if needed. It is a staging convenience for operators; the
// provisioner itself only checks that the image exists.
func ImportInstallerImage(localfilepath string, imagepath string) error {
	ext := filepath.Ext(localfilepath)
	if strings.ToLower(ext) != ".iso" {
		return errors.New("only .iso files allowed")
	}

	if _, err := os.Stat(localfilepath); err != nil {
		return fmt.Errorf("could not read image '%s': %v", localfilepath, err)
	}

	if err := ensureDirectory(filepath.Dir(imagepath)); err != nil {
		return err
	}

	kuttilog.Printf(kuttilog.Debug, "Copying image '%s'...", localfilepath)
	err := workspace.CopyFile(localfilepath, imagepath, 524288000, true)
	if err != nil {
		return fmt.Errorf("could not import image '%s': %v", localfilepath, err)
	}
	kuttilog.Printf(kuttilog.Debug, "Finished copying image '%s'.", localfilepath)

	return nil
}

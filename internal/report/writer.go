package report

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/validator"
	"github.com/thoreinstein/prerelease/pkg/fileutil"
)

// reportPerm is the mode of written report files.
const reportPerm = 0o644

// WriteFile renders the report and writes it to path atomically. Failures are
// returned as system errors wrapping errors.ErrReportWrite.
func WriteFile(path string, report *validator.Report, format validator.Format) error {
	data, err := Marshal(report, format)
	if err != nil {
		return errors.NewSystemError(
			errors.Mark(errors.Wrap(err, "rendering report"), errors.ErrReportWrite), "")
	}

	if err := fileutil.AtomicWriteFile(path, data, reportPerm); err != nil {
		return errors.NewSystemError(
			errors.Mark(errors.Wrapf(err, "writing report to %s", path), errors.ErrReportWrite),
			"Check that the output directory exists and is writable",
		)
	}
	return nil
}

// CheckWritable reports whether a report could be created at path: the
// parent directory must exist and accept new files, and path must not be a
// directory. A temporary file is created next to path and removed again.
func CheckWritable(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return errors.Newf("output %s is a directory", path)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".prc-writable-*")
	if err != nil {
		return errors.Wrapf(err, "output %s is not writable", path)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return errors.Wrapf(err, "output %s is not writable", path)
	}
	return errors.Wrap(os.Remove(name), "removing write check file")
}

package tip

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"
)

// forEachRow calls fn for every CSV record of the file, optionally skipping
// the header and stopping after limit records (0 means unlimited). Rows are
// numbered from 0 after the header.
func forEachRow(path string, skipHeader bool, limit int, fn func(i int, row []string) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if skipHeader {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				return 0, nil
			}
			return 0, errors.Wrapf(err, "failed to read header of %s", path)
		}
	}

	count := 0
	for limit == 0 || count < limit {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, errors.Wrapf(err, "failed to read %s", path)
		}
		if err := fn(count, row); err != nil {
			return count, errors.Wrapf(err, "%s row %d", path, count)
		}
		count++
	}
	return count, nil
}

// column returns row[i], or "" for short rows.
func column(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

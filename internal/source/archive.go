package source

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/pkg/logger"
)

// LoadArchive unpacks a zip bundle of per-period files (YYYYMM.csv or
// YYYYMM.xlsx, at any depth) into an Index. Entries with other names are skipped.
func LoadArchive(archivePath string, log *logger.Logger) (*Index, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	tables, err := readArchive(&zr.Reader, log)
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", archivePath, err)
	}

	log.WithFields(map[string]interface{}{
		"path":   archivePath,
		"tables": len(tables),
	}).Info("Ranking archive unpacked")

	return newIndex("archive", tables), nil
}

// LoadArchiveReader is LoadArchive over an in-memory zip
func LoadArchiveReader(r io.ReaderAt, size int64, log *logger.Logger) (*Index, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	tables, err := readArchive(zr, log)
	if err != nil {
		return nil, err
	}
	return newIndex("archive", tables), nil
}

func readArchive(zr *zip.Reader, log *logger.Logger) (map[period.Key]*contracts.RankingTable, error) {
	tables := make(map[period.Key]*contracts.RankingTable)

	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}

		base := path.Base(file.Name)
		ext := strings.ToLower(path.Ext(base))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		key, err := period.ParseKey(strings.TrimSuffix(base, path.Ext(base)))
		if err != nil {
			log.WithField("entry", file.Name).Debug("Skipping non-period archive entry")
			continue
		}
		if _, dup := tables[key]; dup {
			return nil, fmt.Errorf("period %s appears more than once (%s)", key, file.Name)
		}

		table, err := readEntry(file, key, ext)
		if err != nil {
			return nil, err
		}
		tables[key] = table
	}

	return tables, nil
}

func readEntry(file *zip.File, key period.Key, ext string) (*contracts.RankingTable, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	if ext == ".xlsx" {
		return readFirstSheet(rc, key)
	}
	return ReadCSV(key, rc)
}

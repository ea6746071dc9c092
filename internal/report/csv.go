package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

var header = []string{"date", "node count", "farms with nodes", "total CRU", "total MRU", "total SRU", "total HRU"}

// Write emits the header followed by one record per row.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Month.Label(),
			strconv.Itoa(r.Summary.Nodes),
			strconv.Itoa(r.Summary.Farms),
			strconv.FormatUint(uint64(r.Summary.Total.CRU), 10),
			strconv.FormatUint(uint64(r.Summary.Total.MRU), 10),
			strconv.FormatUint(uint64(r.Summary.Total.SRU), 10),
			strconv.FormatUint(uint64(r.Summary.Total.HRU), 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", r.Month.Label(), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile creates (or truncates) path and writes the full report to it.
func WriteFile(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(file, rows); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

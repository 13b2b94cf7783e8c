package sim

import (
	"encoding/json"
	"os"

	"dtnreport/internal/metrics"
)

// FileWriter writes report rows to JSONL files.
type FileWriter struct {
	occFile     *os.File
	delFile     *os.File
	summaryFile *os.File
	occEnc      *json.Encoder
	delEnc      *json.Encoder
	summaryEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. deliveredPath or summaryPath may be
// empty to skip those logs.
func NewFileWriter(occupancyPath, deliveredPath, summaryPath string) (*FileWriter, error) {
	of, err := os.Create(occupancyPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{occFile: of, occEnc: json.NewEncoder(of)}
	if deliveredPath != "" {
		df, err := os.Create(deliveredPath)
		if err != nil {
			of.Close()
			return nil, err
		}
		fw.delFile = df
		fw.delEnc = json.NewEncoder(df)
	}
	if summaryPath != "" {
		sf, err := os.Create(summaryPath)
		if err != nil {
			if fw.delFile != nil {
				fw.delFile.Close()
			}
			of.Close()
			return nil, err
		}
		fw.summaryFile = sf
		fw.summaryEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// WriteOccupancy logs a single occupancy row.
func (f *FileWriter) WriteOccupancy(row metrics.OccupancyRow) error {
	return f.occEnc.Encode(row)
}

// WriteOccupancies logs multiple occupancy rows.
func (f *FileWriter) WriteOccupancies(rows []metrics.OccupancyRow) error {
	for _, r := range rows {
		if err := f.WriteOccupancy(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteDelivered logs a delivered-count row, if enabled.
func (f *FileWriter) WriteDelivered(row metrics.DeliveredRow) error {
	if f.delEnc == nil {
		return nil
	}
	return f.delEnc.Encode(row)
}

// WriteSummary logs the summary row, if enabled.
func (f *FileWriter) WriteSummary(row metrics.SummaryRow) error {
	if f.summaryEnc == nil {
		return nil
	}
	return f.summaryEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.occFile, f.delFile, f.summaryFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

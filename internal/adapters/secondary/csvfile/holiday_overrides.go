package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lorrc/lab-dashboard-backend/internal/core/ports"
)

// HolidayOverrides reads the optional holiday list, one YYYY-MM-DD date per
// row. A missing file is the normal case and yields an empty list, which
// tells the calendar to fall back to the computed company rules.
type HolidayOverrides struct {
	path   string
	logger *slog.Logger
}

var _ ports.HolidayOverrideSource = (*HolidayOverrides)(nil)

func NewHolidayOverrides(path string, logger *slog.Logger) *HolidayOverrides {
	return &HolidayOverrides{
		path:   path,
		logger: logger.With("component", "holiday_overrides"),
	}
}

func (h *HolidayOverrides) Overrides(ctx context.Context) ([]time.Time, error) {
	f, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open holiday overrides: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse holiday overrides: %w", err)
	}

	var dates []time.Time
	for i, record := range records {
		if isBlankRecord(record) {
			continue
		}
		raw := strings.TrimSpace(record[0])
		// Tolerate a header row on the first line.
		if i == 0 {
			if _, err := time.ParseInLocation("2006-01-02", raw, time.UTC); err != nil {
				continue
			}
		}
		date, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("holiday overrides %q row %d: bad date %q", h.path, i+1, raw)
		}
		dates = append(dates, date)
	}

	h.logger.DebugContext(ctx, "holiday overrides loaded", "dates", len(dates))
	return dates, nil
}

package artifact

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atlasmet/extremecast/internal/models"
)

// historyColumns maps CSV headers to observation fields. The header
// names are part of the artifact contract.
var historyColumns = []string{
	"date",
	"mean_temperature",
	"max_temperature",
	"min_temperature",
	"total_precipitation",
	"mean_windSpeed",
	"mean_dewPoint",
	"mean_visibility",
}

// LoadHistory reads the daily observation table from a CSV file and
// returns it sorted chronologically. Gaps are not filled; a series too
// short for the model window surfaces later as an insufficient-history
// failure rather than interpolation.
func LoadHistory(path string) ([]models.Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer file.Close()

	return parseHistory(file, path)
}

func parseHistory(r io.Reader, path string) ([]models.Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read history header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, name := range historyColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("history %s: missing column %q", path, name)
		}
	}

	var obs []models.Observation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("history %s line %d: %w", path, line+1, err)
		}
		line++

		date := strings.TrimSpace(record[idx["date"]])
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("history %s line %d: bad date %q", path, line, date)
		}

		o := models.Observation{Date: date}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"mean_temperature", &o.MeanTemp},
			{"max_temperature", &o.MaxTemp},
			{"min_temperature", &o.MinTemp},
			{"total_precipitation", &o.Precipitation},
			{"mean_windSpeed", &o.WindSpeed},
			{"mean_dewPoint", &o.DewPoint},
			{"mean_visibility", &o.Visibility},
		}
		for _, f := range fields {
			raw := strings.TrimSpace(record[idx[f.name]])
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("history %s line %d: bad %s %q", path, line, f.name, raw)
			}
			*f.dst = v
		}
		obs = append(obs, o)
	}

	if len(obs) == 0 {
		return nil, fmt.Errorf("history %s: no observations", path)
	}

	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date < obs[j].Date })
	return obs, nil
}

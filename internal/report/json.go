package report

import (
	"encoding/json"
	"io"

	"github.com/san-kum/regensim/internal/sim"
)

func ExportJSON(w io.Writer, res *sim.TestResults) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func ImportJSON(r io.Reader) (*sim.TestResults, error) {
	var res sim.TestResults
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

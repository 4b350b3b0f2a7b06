package output

import (
	"encoding/json"
	"io"

	"github.com/wesleyorama2/montepi/internal/montecarlo/engine"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report *engine.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

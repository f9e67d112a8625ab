package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV reads a CSV, auto-detecting the encoding and converting to UTF-8.
// eBay UK exports are occasionally Windows-1252 rather than UTF-8.
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1252", "cp1252", "iso-8859-1":
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	default:
		// assume UTF-8
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

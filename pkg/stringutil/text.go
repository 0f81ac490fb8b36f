// Package stringutil provides some string based helpers.
package stringutil

import (
	"strings"
)

// StringChunkDelimited is used to split a multiline string into strings with a max size defined as chunkSize.
// A string of len > chunkSize will not be split.
func StringChunkDelimited(data string, chunkSize int, sep ...string) []string {
	if len(data) <= chunkSize {
		return []string{data}
	}

	var ( //nolint:prealloc
		results   []string
		curPieces []string
		curSize   int
		sepChar   = "\n"
	)

	if len(sep) > 0 {
		sepChar = sep[0]
	}

	rows := strings.Split(data, sepChar)
	for index, row := range rows {
		curLineSize := len(row) + len(sepChar) // account for \n
		if curSize+curLineSize >= chunkSize {
			results = append(results, strings.TrimSuffix(strings.Join(curPieces, sepChar), sepChar))
			curSize = 0
			curPieces = nil
		}

		curPieces = append(curPieces, row)
		curSize += curLineSize

		if index+1 == len(rows) {
			results = append(results, strings.TrimSuffix(strings.Join(curPieces, sepChar), sepChar))
		}
	}

	return results
}

// ChunkFixed splits data into fixed width segments regardless of content. The
// last segment holds whatever remains. An empty input yields no segments.
func ChunkFixed(data string, width int) []string {
	if data == "" || width <= 0 {
		return nil
	}

	var results []string
	for len(data) > width {
		results = append(results, data[:width])
		data = data[width:]
	}

	return append(results, data)
}

// ABOUTME: Streaming decoder for the broadcaster film-list JSON document
// ABOUTME: Handles repeated record keys, channel/show inheritance and offset|tail URL patches

package filmlist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hkern/mediathek/internal/models"
	"github.com/hkern/mediathek/internal/parse"
)

// Field positions of one film-list record.
const (
	fieldChannel = iota
	fieldShow
	fieldTitle
	fieldDate
	fieldTime
	fieldDuration
	fieldSize
	fieldDescription
	fieldVideoURL
	fieldWebsiteURL
	fieldSubtitleURL
	fieldRTMPURL
	fieldVideoURLSD
	fieldRTMPURLSD
	fieldVideoURLHD
	fieldRTMPURLHD
	fieldAiredEpoch
	fieldHistoryURL
	fieldGeo
	fieldNew
	fieldCount
)

// recordKey is the JSON object key under which film records repeat.
const recordKey = "X"

const airedLayout = "02.01.2006 15:04:05"

// Decode reads a film-list document from r and calls fn once per record.
// The document is one large JSON object whose record key repeats, so the
// token stream is walked by hand. Records with an empty channel or show
// field inherit the value of the preceding record. Decoding stops when fn
// returns an error or ctx is cancelled; that error is returned.
func Decode(ctx context.Context, r io.Reader, fn func(*models.Record) error) error {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("film list: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("film list: unexpected leading token %v", tok)
	}

	var lastChannel, lastShow string
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return err
		}

		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("film list: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("film list: unexpected key token %v", keyTok)
		}

		var fields []string
		if err := dec.Decode(&fields); err != nil {
			return fmt.Errorf("film list: %w", err)
		}
		if key != recordKey {
			// Header entries (list metadata, column names)
			continue
		}
		if len(fields) < fieldCount {
			continue
		}

		rec := buildRecord(fields, &lastChannel, &lastShow)
		if err := fn(rec); err != nil {
			return err
		}
	}

	return nil
}

func buildRecord(fields []string, lastChannel, lastShow *string) *models.Record {
	if fields[fieldChannel] != "" {
		*lastChannel = fields[fieldChannel]
	}
	if fields[fieldShow] != "" {
		*lastShow = fields[fieldShow]
	}

	video := fields[fieldVideoURL]
	return &models.Record{
		Channel:     *lastChannel,
		Show:        *lastShow,
		Title:       fields[fieldTitle],
		Aired:       airTime(fields[fieldAiredEpoch], fields[fieldDate], fields[fieldTime]),
		Duration:    fields[fieldDuration],
		SizeMB:      parse.SizeMB(fields[fieldSize]),
		Description: fields[fieldDescription],
		WebsiteURL:  fields[fieldWebsiteURL],
		SubtitleURL: fields[fieldSubtitleURL],
		VideoURL:    video,
		VideoURLSD:  expandURL(video, fields[fieldVideoURLSD]),
		VideoURLHD:  expandURL(video, fields[fieldVideoURLHD]),
	}
}

// airTime resolves a record's air time: the epoch field when usable,
// else the date and time fields, else nil.
func airTime(epoch, date, clock string) *time.Time {
	if epoch != "" {
		if n, err := strconv.ParseInt(epoch, 10, 64); err == nil && n > 0 {
			t := time.Unix(n, 0)
			return &t
		}
	}
	if date == "" {
		return nil
	}
	if clock == "" {
		clock = "00:00:00"
	}
	t, err := time.ParseInLocation(airedLayout, date+" "+clock, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

// expandURL resolves a quality-variant URL field. Variants come either as
// a full URL or in "offset|tail" patch form, meaning: keep the first
// offset bytes of the main URL and append the tail.
func expandURL(base, v string) string {
	if v == "" {
		return ""
	}
	i := strings.IndexByte(v, '|')
	if i < 0 {
		return v
	}
	offset, err := strconv.Atoi(v[:i])
	if err != nil || offset < 0 || offset > len(base) {
		return ""
	}
	return base[:offset] + v[i+1:]
}

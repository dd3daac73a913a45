package beepengine

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

func supportedExt(ext string) bool {
	switch ext {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	}
	return false
}

func decode(f *os.File, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case extMP3:
		return mp3.Decode(f)
	case extFLAC:
		// Skip ID3v2 tag if present (some taggers add it to FLAC
		// files and the FLAC decoder does not handle it).
		if err := skipID3v2(f); err != nil {
			return nil, beep.Format{}, err
		}
		return flac.Decode(f)
	case extWAV:
		return wav.Decode(f)
	case extOGG:
		return vorbis.Decode(f)
	}
	return nil, beep.Format{}, errUnsupportedExt(ext)
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := r.Read(header)
	if err != nil {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is a syncsafe integer in bytes 6-9: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}

// readTitle reads the tagged title of the file, falling back to the
// base filename when the file carries no usable tags.
func readTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return filepath.Base(path)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil || m.Title() == "" {
		return filepath.Base(path)
	}
	return m.Title()
}

func normalizeExt(locator string) string {
	return strings.ToLower(filepath.Ext(locator))
}

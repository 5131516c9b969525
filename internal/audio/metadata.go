package audio

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"

	"github.com/bogem/id3v2/v2"
)

// TrackInfo is what the HUD shows about the loaded file.
type TrackInfo struct {
	Name    string // base file name
	Title   string
	Artist  string
	Artwork image.Image
}

// ReadTrackInfo reads ID3 title, artist and the first decodable attached
// picture from r. Missing or broken tags leave the fields empty.
func ReadTrackInfo(name string, r io.Reader) TrackInfo {
	info := TrackInfo{Name: filepath.Base(name)}
	tag, err := id3v2.ParseReader(r, id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Title", "Artist", "Attached picture"},
	})
	if err != nil || tag == nil {
		return info
	}
	// tag.Close would close r, which belongs to the caller.

	info.Title = tag.Title()
	info.Artist = tag.Artist()
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(pic.Picture))
		if err != nil {
			continue
		}
		info.Artwork = img
		break
	}
	return info
}

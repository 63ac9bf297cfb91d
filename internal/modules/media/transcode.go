package media

import (
	"bytes"
	"log"
	"strings"

	"github.com/disintegration/imaging"
)

// Flat quality target for served images; not configurable per request.
const jpegQuality = 80

// transcode normalizes orientation from embedded metadata and re-encodes
// image content as JPEG at the flat quality target. sizeHint > 0 bounds
// the longer image dimension. Non-image payloads pass through unchanged,
// and a decode or encode failure falls back to the original bytes since a
// full-size image beats a broken page.
func transcode(data []byte, contentType string, sizeHint int) ([]byte, string) {
	if !strings.HasPrefix(contentType, "image/") {
		return data, contentType
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.Printf("media transcode decode_failed content_type=%s error=%q", contentType, err)
		return data, contentType
	}

	if sizeHint > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > sizeHint || bounds.Dy() > sizeHint {
			img = imaging.Fit(img, sizeHint, sizeHint, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		log.Printf("media transcode encode_failed error=%q", err)
		return data, contentType
	}
	return buf.Bytes(), "image/jpeg"
}

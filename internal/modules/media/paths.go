package media

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultExt = ".jpg"

// MakePrefix derives the object-store prefix for a post created at t:
// community/2024/06/10/<uuid>/. Posts created on the same day share the
// date segment but get distinct uuid segments. The result is stored on
// the post row at creation time and never recomputed from the date.
func MakePrefix(t time.Time) string {
	return fmt.Sprintf("community/%04d/%02d/%02d/%s/",
		t.Year(), int(t.Month()), t.Day(), uuid.New())
}

// MakeKey builds the full object key for one indexed file under prefix.
// Indices are positive integers without zero padding; ext includes the dot.
func MakeKey(prefix string, index int, ext string) string {
	return prefix + strconv.Itoa(index) + ext
}

// ParseIndex extracts the leading integer of an object's base name, up to
// the first dot. Names that do not start with an integer belong to some
// other writer and return -1.
func ParseIndex(key string) int {
	base := path.Base(key)
	numPart, _, _ := strings.Cut(base, ".")
	n, err := strconv.Atoi(numPart)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// ExtOrDefault returns the lower-cased extension of an uploaded filename
// including the dot, falling back to ".jpg" when the name carries none.
func ExtOrDefault(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" || ext == "." {
		return defaultExt
	}
	return ext
}

package utils

import (
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Slugify transliterates title to ASCII and joins its words with dashes:
// "Amélie: Le Fabuleux Destin" becomes "amelie-le-fabuleux-destin".
func Slugify(title string) string {
	ascii := strings.ToLower(unidecode.Unidecode(title))
	var b strings.Builder
	dash := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// MoviePath returns the canonical detail path, e.g. /movie/603-the-matrix.
func MoviePath(id int64, title string) string {
	path := "/movie/" + strconv.FormatInt(id, 10)
	if slug := Slugify(title); slug != "" {
		path += "-" + slug
	}
	return path
}

// ParseMovieID extracts the numeric id from "603" or "603-the-matrix".
func ParseMovieID(segment string) (int64, bool) {
	idPart, _, _ := strings.Cut(segment, "-")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

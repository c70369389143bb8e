package merge

import "strings"

// BaseFilename strips the trailing -N sub-detection suffix from a filename:
// "IMG_0001-1.JPG" becomes "IMG_0001.JPG". Names without an extension or
// without a dash in the stem pass through unchanged.
func BaseFilename(filename string) string {
	dot := strings.LastIndex(filename, ".")
	if dot <= 0 {
		return filename
	}
	stem, ext := filename[:dot], filename[dot+1:]
	dash := strings.LastIndex(stem, "-")
	if dash < 0 {
		return filename
	}
	return stem[:dash] + "." + ext
}

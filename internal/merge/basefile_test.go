package merge

import "testing"

func TestBaseFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"IMG_0001-1.JPG", "IMG_0001.JPG"},
		{"IMG_0001-0.JPG", "IMG_0001.JPG"},
		{"IMG_0001.JPG", "IMG_0001.JPG"},
		{"I__00001-12.JPG", "I__00001.JPG"},
		{"trail-cam-042-3.jpg", "trail-cam-042.jpg"},
		{"noextension", "noextension"},
		{"archive.tar.gz", "archive.tar.gz"},
		// Any dash in the stem triggers the strip at the last dash, even
		// when it is not a -N suffix. Inherited matching behavior.
		{"left-right.JPG", "left.JPG"},
	}
	for _, tc := range cases {
		if got := BaseFilename(tc.in); got != tc.want {
			t.Fatalf("BaseFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

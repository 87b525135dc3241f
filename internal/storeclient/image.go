package storeclient

import "strings"

// NormalizeImage makes a product image renderable. The store sends
// images either as a complete data URI or as raw base64 that still
// needs the jpeg prefix, so check before prepending.
func NormalizeImage(img string) string {
	if img == "" || strings.HasPrefix(img, "data:") {
		return img
	}
	return "data:image/jpeg;base64," + img
}

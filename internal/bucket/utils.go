package bucket

import (
	"path"
	"strings"
)

const (
	contentTypeJPEG = "image/jpeg"
	contentTypePNG  = "image/png"
	contentTypeWEBP = "image/webp"
)

func fileExtensionFromContentType(contentType string) string {
	switch contentType {
	case contentTypeJPEG:
		return "jpg"
	case contentTypePNG:
		return "png"
	case contentTypeWEBP:
		return "webp"
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) > 1 {
			return parts[1]
		}
		return contentType
	}
}

func constructFullPath(baseFolder, folder, fileName, ext string) string {
	return path.Clean(path.Join(baseFolder, folder, fileName) + "." + ext)
}

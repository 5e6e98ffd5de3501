package services

import (
	"fmt"
	"strings"
)

// GetExtensionFromContentType возвращает расширение файла для image/* типа.
func GetExtensionFromContentType(contentType string) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/gif":
		return "gif", nil
	case "image/webp":
		return "webp", nil
	case "image/heic":
		return "heic", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
			// "image/svg+xml" -> "svg"
			return strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("%w: '%s'", ErrUnsupportedImageType, contentType)
	}
}

// extensionFromFilename — расширение из имени файла в нижнем регистре, "" если его нет.
func extensionFromFilename(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

package base64

import (
	enc "encoding/base64"
	"errors"
	"strings"
)

const dataURLSeparator = ";base64,"

var ErrNotDataURL = errors.New("value is not a base64 data-URL")

func GetContentType(file string) string {
	start := len("data:")
	end := strings.Index(file, dataURLSeparator)

	if end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// DecodeDataURL splits a "data:<mime>;base64,<payload>" string into its
// content type and decoded bytes.
func DecodeDataURL(file string) (contentType string, data []byte, err error) {
	contentType = GetContentType(file)
	if contentType == "" {
		return "", nil, ErrNotDataURL
	}

	idx := strings.Index(file, dataURLSeparator)
	payload := file[idx+len(dataURLSeparator):]

	data, err = enc.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrNotDataURL, err)
	}

	return contentType, data, nil
}

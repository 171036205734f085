package attachment

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
)

// EncodedFile is a self-describing encoded upload: a data URI of the form
// data:{mime};base64,{payload} plus the original file name.
type EncodedFile struct {
	Name    string
	DataURI string
}

// Encode reads a file and produces its data URI. The content type is
// sniffed from the content and falls back to the file extension. A read
// failure propagates to the caller.
func Encode(name string, r io.Reader) (EncodedFile, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return EncodedFile{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	contentType := http.DetectContentType(content)
	if contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
			contentType = byExt
		}
	}

	payload := base64.StdEncoding.EncodeToString(content)
	return EncodedFile{
		Name:    name,
		DataURI: fmt.Sprintf("data:%s;base64,%s", contentType, payload),
	}, nil
}

// NamedReader pairs an upload with its file name for batch encoding.
type NamedReader struct {
	Name   string
	Reader io.Reader
}

// EncodeAll encodes a batch of uploads concurrently. Results preserve the
// input order. If any single encode fails the whole batch fails; partial
// success is never reported.
func EncodeAll(files []NamedReader) ([]EncodedFile, error) {
	if len(files) == 0 {
		return []EncodedFile{}, nil
	}

	encoded := make([]EncodedFile, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f NamedReader) {
			defer wg.Done()
			encoded[i], errs[i] = Encode(f.Name, f.Reader)
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return encoded, nil
}

// Decode splits an encoded string back into its content type and base64
// payload. Malformed input is not fatal: a string without the two-part
// data URI shape yields an empty payload and the caller degrades to a
// placeholder.
func Decode(encoded string) (contentType, payload string) {
	prefix, rest, found := strings.Cut(encoded, ",")
	if !found {
		return "", ""
	}

	meta, _, _ := strings.Cut(prefix, ";")
	if _, mimeType, ok := strings.Cut(meta, ":"); ok {
		contentType = mimeType
	}
	return contentType, rest
}

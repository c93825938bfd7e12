package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
)

// FormFile is one file part of a multipart upload.
type FormFile struct {
	Field    string
	Filename string
	Data     []byte
}

// FileFromPath reads path into a [FormFile] under field.
func FileFromPath(field, path string) (FormFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return FormFile{Field: field, Filename: filepath.Base(path), Data: data}, nil
}

// Form is a multipart body. It is encoded once so a replay sends identical bytes.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, f.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	for _, file := range f.Files {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(file.Data)); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Package storage handles the files that flow through transcription jobs:
// incoming uploads and saved transcript artifacts.
package storage

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"scribby/internal/model"
)

// SaveUpload spools an uploaded file to a temp location, preserving the
// original extension so downstream tools can sniff the format. The caller
// removes the file when the job finishes.
func SaveUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	out, err := os.CreateTemp("", "scribby-upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return out.Name(), nil
}

// ReadTranscript loads a saved transcript artifact.
func ReadTranscript(path string) (model.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("failed to read transcript file: %w", err)
	}

	var t model.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return model.Transcript{}, fmt.Errorf("failed to parse transcript file: %w", err)
	}
	return t, nil
}

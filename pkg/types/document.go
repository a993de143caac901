// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"slices"
	"strings"
)

// Kind classifies a source file by the converter that handles it.
type Kind string

const (
	KindPresentation Kind = "presentation"
	KindDocument     Kind = "document"
	KindImage        Kind = "image"
	KindText         Kind = "text"
	KindPDF          Kind = "pdf"
	KindUnsupported  Kind = "unsupported"
)

// extKinds maps a lowercased extension (with leading dot) to its Kind.
var extKinds = map[string]Kind{
	".ppt":      KindPresentation,
	".pptx":     KindPresentation,
	".odp":      KindPresentation,
	".doc":      KindDocument,
	".docx":     KindDocument,
	".odt":      KindDocument,
	".rtf":      KindDocument,
	".png":      KindImage,
	".jpg":      KindImage,
	".jpeg":     KindImage,
	".tif":      KindImage,
	".tiff":     KindImage,
	".txt":      KindText,
	".md":       KindText,
	".markdown": KindText,
	".pdf":      KindPDF,
}

// ClassifyExt returns the Kind for ext. Matching is case-insensitive and
// accepts the extension with or without its leading dot.
func ClassifyExt(ext string) Kind {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if k, ok := extKinds[ext]; ok {
		return k
	}
	return KindUnsupported
}

// Extensions returns the recognized extensions for k, sorted.
func Extensions(k Kind) []string {
	var exts []string
	for ext, kind := range extKinds {
		if kind == k {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)
	return exts
}

// SourceFile is one entry of the input directory. Ext is lowercased and is
// used only as a dispatch key.
type SourceFile struct {
	// Path is the filesystem path of the file.
	Path string `json:"path" yaml:"path"`

	// Name is the base name including extension.
	Name string `json:"name" yaml:"name"`

	// Ext is the lowercased extension including the leading dot.
	Ext string `json:"ext" yaml:"ext"`

	// Kind selects the converter.
	Kind Kind `json:"kind" yaml:"kind"`
}

// Classify builds a SourceFile for path.
func Classify(path string) SourceFile {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	return SourceFile{
		Path: path,
		Name: name,
		Ext:  ext,
		Kind: ClassifyExt(ext),
	}
}

// Stem returns the base name without its extension.
func (s SourceFile) Stem() string {
	return strings.TrimSuffix(s.Name, filepath.Ext(s.Name))
}

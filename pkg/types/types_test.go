// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyExt(t *testing.T) {
	tests := []struct {
		ext  string
		want Kind
	}{
		{".pptx", KindPresentation},
		{"PPT", KindPresentation},
		{".DOCX", KindDocument},
		{".doc", KindDocument},
		{".Jpeg", KindImage},
		{"png", KindImage},
		{".md", KindText},
		{".pdf", KindPDF},
		{".exe", KindUnsupported},
		{"", KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExt(tt.ext))
		})
	}
}

func TestClassify(t *testing.T) {
	src := Classify("/in/Quarterly Report.DOCX")
	assert.Equal(t, "Quarterly Report.DOCX", src.Name)
	assert.Equal(t, ".docx", src.Ext)
	assert.Equal(t, KindDocument, src.Kind)
	assert.Equal(t, "Quarterly Report", src.Stem())

	noExt := Classify("/in/README")
	assert.Equal(t, KindUnsupported, noExt.Kind)
	assert.Equal(t, "README", noExt.Stem())
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".jpeg", ".jpg", ".png", ".tif", ".tiff"}, Extensions(KindImage))
	assert.Empty(t, Extensions(KindUnsupported))
}

func TestScanResult(t *testing.T) {
	r := ScanResult{Files: []FileResult{
		{Status: FileConverted, PDFPath: "/tmp/a.pdf"},
		{Status: FileSkipped},
		{Status: FilePassthrough, PDFPath: "/in/b.pdf"},
		{Status: FileFailed},
	}}
	assert.Equal(t, []string{"/tmp/a.pdf", "/in/b.pdf"}, r.PDFPaths())
	assert.Equal(t, 1, r.Count(FileSkipped))
	assert.Equal(t, 0, ScanResult{}.Count(FileFailed))
}

func TestRunSummarySucceeded(t *testing.T) {
	assert.True(t, RunSummary{MergedPath: "/out/m.pdf"}.Succeeded())
	assert.False(t, RunSummary{MergedPath: "/out/m.pdf", Err: "boom"}.Succeeded())
	assert.False(t, RunSummary{}.Succeeded())
}

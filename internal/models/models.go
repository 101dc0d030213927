package models

// FileDescriptor is the normalized form of one uploaded file plus its
// processing instructions. Built once per upload request and handed to the
// worker pool as an immutable snapshot.
//
// GeneratedName is unique per upload and is the stem of every derived
// artifact filename, so concurrent uploads never collide on disk.
// CustomExt is empty when the client did not request an extra output format.
type FileDescriptor struct {
	SourcePath       string
	GeneratedName    string
	OriginalName     string
	DeclaredMimeType string
	OriginalExt      string
	CustomExt        string
}

// Artifact describes one derived file written to the processed directory.
type Artifact struct {
	OriginalName string `json:"originalName,omitempty"`
	Path         string `json:"path"`
	SizeKB       int    `json:"sizeKB"`
	Ext          string `json:"ext"`
	URL          string `json:"url"`
}

// ProcessingResult holds the three artifact slots produced for one upload.
// CustomExtCompressFile is nil when no custom extension was requested.
type ProcessingResult struct {
	Message               string    `json:"message"`
	OriginalFile          Artifact  `json:"originalFile"`
	CustomExtCompressFile *Artifact `json:"customExtCompressFile"`
	OriginalExtCompress   Artifact  `json:"originalExtCompressFile"`
}

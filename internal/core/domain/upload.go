package domain

// MaxUploadBytes is the default upload cap.
const MaxUploadBytes int64 = 5 << 20

// AllowedUploadTypes maps each accepted MIME type to the extension used on disk.
var AllowedUploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadedFile describes a stored upload.
type UploadedFile struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	Hash         string `json:"hash"`
	Deduplicated bool   `json:"deduplicated"`
}

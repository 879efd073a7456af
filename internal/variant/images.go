package variant

import (
	"slices"
	"strings"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 5 * 1024 * 1024

// PendingFile is an image chosen in the editor but not uploaded yet.
type PendingFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// ImageRef is one entry of a color bucket: either a pending file or an image
// that already lives in object storage.
type ImageRef struct {
	URL  string
	Key  string
	File *PendingFile
}

func (r ImageRef) Pending() bool { return r.File != nil }

// ImageRejection explains why a single file was not added.
type ImageRejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// CheckImage applies the upload predicate: an image/* MIME type no larger than
// MaxImageSize.
func CheckImage(f PendingFile) error {
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return ErrNotImage
	}
	if f.Size > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}

// AddImages appends the acceptable files to the color's bucket in the order
// given. Identical files are stored as separate entries.
func (e *Engine) AddImages(color string, files []PendingFile) []ImageRejection {
	color = cleanLabel(color)
	if color == "" {
		rejected := make([]ImageRejection, 0, len(files))
		for _, f := range files {
			rejected = append(rejected, ImageRejection{Filename: f.Filename, Reason: "color is required"})
		}
		return rejected
	}
	e.touch()

	var rejected []ImageRejection
	for i := range files {
		f := files[i]
		if err := CheckImage(f); err != nil {
			rejected = append(rejected, ImageRejection{Filename: f.Filename, Reason: err.Error()})
			continue
		}
		e.appendImage(color, ImageRef{File: &f})
	}
	return rejected
}

// RemoveImage drops the entry at index from the color's bucket.
func (e *Engine) RemoveImage(color string, index int) bool {
	bucket := e.buckets[color]
	if index < 0 || index >= len(bucket) {
		return false
	}
	e.touch()
	bucket = slices.Delete(bucket, index, index+1)
	if len(bucket) == 0 {
		e.dropBucket(color)
		return true
	}
	e.buckets[color] = bucket
	return true
}

// Bucket returns a copy of the images held for color.
func (e *Engine) Bucket(color string) []ImageRef {
	return slices.Clone(e.buckets[color])
}

func (e *Engine) appendImage(color string, ref ImageRef) {
	if _, ok := e.buckets[color]; !ok {
		e.bucketOrder = append(e.bucketOrder, color)
	}
	e.buckets[color] = append(e.buckets[color], ref)
}

func (e *Engine) dropBucket(color string) {
	delete(e.buckets, color)
	e.bucketOrder = e.bucketOrder.without(color)
}

// imageColors lists populated buckets: selected colors first in selection
// order, then buckets for colors that are not selected, in creation order.
func (e *Engine) imageColors() []string {
	out := make([]string, 0, len(e.bucketOrder))
	for _, c := range e.colors {
		if len(e.buckets[c]) > 0 {
			out = append(out, c)
		}
	}
	for _, c := range e.bucketOrder {
		if !e.colors.has(c) && len(e.buckets[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

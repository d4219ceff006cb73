package upload

import "log/slog"

// FailedText is the only failure text users ever see from the upload control.
const FailedText = "Upload failed. Please try again."

// State is what the upload control displays. Empty strings stand for "none".
type State struct {
	ImageURL    string
	PreviewPath string
	Uploading   bool
	Err         string
}

// Job identifies one upload started by Select. Results for a job that has been
// superseded by another Select or a Reset are discarded.
type Job struct {
	gen  uint64
	Path string // snapshot to read from
	Name string // original file name to upload under
}

// Control is the upload state machine:
//
//	idle -> uploading (with preview) -> resolved | error
//	resolved | error -> idle (Reset)
//
// It is owned by a single view and is not safe for concurrent use.
type Control struct {
	previewWidth int
	state        State
	preview      *Preview
	gen          uint64
}

// NewControl returns an idle control rendering thumbnails previewWidth cells wide.
func NewControl(previewWidth int) *Control {
	return &Control{previewWidth: previewWidth}
}

// State returns the current state.
func (c *Control) State() State {
	return c.state
}

// Preview returns the current preview, or nil.
func (c *Control) Preview() *Preview {
	return c.preview
}

// Select snapshots the file at path, replacing (and releasing) any previous
// preview, and moves to uploading. The caller performs the upload for the returned job.
func (c *Control) Select(path string) (Job, error) {
	c.gen++
	c.releasePreview()

	p, err := NewPreview(path, c.previewWidth)
	if err != nil {
		slog.Warn("Could not preview selected file", "path", path, "error", err)
		c.state = State{Err: FailedText}
		return Job{}, err
	}

	c.preview = p
	c.state = State{PreviewPath: p.Path(), Uploading: true}
	return Job{gen: c.gen, Path: p.Path(), Name: p.Name()}, nil
}

// Finish applies the outcome of job and returns the image URL to report to the
// parent ("" on failure). applied is false when the job is stale.
func (c *Control) Finish(job Job, imageURL string, err error) (reported string, applied bool) {
	if job.gen != c.gen || !c.state.Uploading {
		slog.Debug("Discarding stale upload result", "name", job.Name)
		return "", false
	}

	c.state.Uploading = false
	if err != nil {
		slog.Error("Upload failed", "name", job.Name, "error", err)
		c.state.ImageURL = ""
		c.state.Err = FailedText
		return "", true
	}

	c.state.ImageURL = imageURL
	c.state.Err = ""
	return imageURL, true
}

// Reset releases the preview, clears every field and invalidates any upload
// still in flight. It returns the image URL to report to the parent, always "".
func (c *Control) Reset() string {
	c.gen++
	c.releasePreview()
	c.state = State{}
	return ""
}

// Close releases the preview when the owning view is torn down.
func (c *Control) Close() error {
	p := c.preview
	c.preview = nil
	return p.Release()
}

func (c *Control) releasePreview() {
	if err := c.Close(); err != nil {
		slog.Warn("Could not release preview", "error", err)
	}
}

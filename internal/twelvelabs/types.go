package twelvelabs

const (
	StatusReady = "ready"

	statusFailed = "failed"
	statusError  = "error"
)

// Task is an indexing job tracked by the API.
type Task struct {
	ID      string `json:"_id"`
	Status  string `json:"status"`
	VideoID string `json:"video_id"`
}

// Terminal reports whether the task has stopped moving, successfully or not.
func (t Task) Terminal() bool {
	switch t.Status {
	case StatusReady, statusFailed, statusError:
		return true
	}
	return false
}

// IndexVideo is a video already present in the index.
type IndexVideo struct {
	ID        string `json:"_id"`
	SourceURL string `json:"source_url"`
	Metadata  struct {
		Filename string `json:"filename"`
	} `json:"system_metadata"`
}

// Chapter is a summarize type=chapter segment.
type Chapter struct {
	Number  int     `json:"chapter_number"`
	Title   string  `json:"chapter_title"`
	Summary string  `json:"chapter_summary"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

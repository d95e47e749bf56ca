package transfer

// PostSubmission is the intake payload. ScheduledAt uses the calendar
// widget's local format and is parsed by the intake service.
type PostSubmission struct {
	ClientID       string   `json:"client_id"`
	Channels       []string `json:"channels"`
	MediaRefs      []string `json:"media_refs"`
	Caption        string   `json:"caption"`
	ScheduledAt    string   `json:"scheduled_at"`
	IsDraft        bool     `json:"is_draft"`
	ApprovalStatus string   `json:"approval_status"`
}

type SubmissionResult struct {
	PostID    string `json:"post_id"`
	Status    string `json:"status"`
	Published bool   `json:"published,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ApprovalAction struct {
	PostID   string `json:"post_id"`
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

type MediaUploadResult struct {
	AssetID  string `json:"asset_id"`
	MediaRef string `json:"media_ref"`
	FileType string `json:"file_type"`
}

type SweepStats struct {
	Processed int `json:"processed"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

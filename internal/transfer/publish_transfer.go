package transfer

type PublishRequest struct {
	ContentID int64    `json:"contentId"`
	Content   string   `json:"content"`
	ImageURL  string   `json:"imageUrl"`
	Platforms []string `json:"platforms"`
}

type PublishResult struct {
	Success  bool   `json:"success"`
	Platform string `json:"platform"`
	PostID   string `json:"postId,omitempty"`
	PostURL  string `json:"postUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

type PublishSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type PublishResponse struct {
	Success bool            `json:"success"`
	Results []PublishResult `json:"results"`
	Summary PublishSummary  `json:"summary"`
}

type ScheduleRequest struct {
	ContentID     int64    `json:"contentId"`
	Content       string   `json:"content"`
	ImageURL      string   `json:"imageUrl"`
	Platforms     []string `json:"platforms"`
	ScheduledTime string   `json:"scheduledTime"`
}

package transfer

type GenerateRequest struct {
	ArticleID int64  `json:"articleId"`
	Topic     string `json:"topic"`
	Platform  string `json:"platform"`
	Tone      string `json:"tone"`
}

type SettingsUpdate struct {
	Categories  string `json:"categories"`
	PostingTime string `json:"posting_time"`
}

type PlatformCount struct {
	Platform  string `json:"platform"`
	Published int64  `json:"published"`
	Failed    int64  `json:"failed"`
}

type AnalyticsSummary struct {
	Total     int64            `json:"total"`
	Published int64            `json:"published"`
	Failed    int64            `json:"failed"`
	Platforms []*PlatformCount `json:"platforms"`
}

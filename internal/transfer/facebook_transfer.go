package transfer

type FacebookTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type FacebookUserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FacebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type FacebookPagesResponse struct {
	Data []FacebookPage `json:"data"`
}

type InstagramBusinessAccountResponse struct {
	InstagramBusinessAccount struct {
		ID string `json:"id"`
	} `json:"instagram_business_account"`
	ID string `json:"id"`
}

type InstagramUserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type GraphErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FbtraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

type GraphObjectResponse struct {
	ID string `json:"id"`
}

type GraphPermalinkResponse struct {
	ID        string `json:"id"`
	Permalink string `json:"permalink"`
}

package transfer

type ThreadsTokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
}

type ThreadsLongLivedTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type ThreadsUserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
